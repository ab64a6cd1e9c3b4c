package codec

// Config bounds external codec process execution.
type Config struct {
	// MaxProcs is the upper bound on simultaneously running codec processes.
	MaxProcs int `mapstructure:"max_procs" default:"4"`
	// TimeoutSeconds is the per-process execution deadline; the process is
	// forcibly terminated when it elapses.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}
