package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Result captures one codec process execution. A non-zero ExitCode is a
// reported outcome, not an error; batch callers keep going.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// TimedOut is set when the process was killed at its deadline.
	TimedOut bool
}

// Runner executes codec command templates as isolated external processes.
// Concurrent invocations across files are bounded by a fixed-size worker
// pool; each process runs under a deadline and is forcibly terminated when
// it elapses.
type Runner struct {
	timeout time.Duration
	sem     chan struct{}
	logger  *zap.Logger
}

// NewRunner creates a runner from the codec configuration.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	maxProcs := cfg.MaxProcs
	if maxProcs <= 0 {
		maxProcs = 4
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Runner{
		timeout: timeout,
		sem:     make(chan struct{}, maxProcs),
		logger:  logger,
	}
}

// Run renders the template with the given paths and executes it. The
// environment is inherited from the caller; stdout and stderr are captured.
// The returned error covers only failure to start, cancellation and timeout;
// a process that ran and exited non-zero yields a nil error with the exit
// code in the result.
func (r *Runner) Run(ctx context.Context, template Template, inputPath, outputPath string) (*Result, error) {
	// Bound simultaneous processes.
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	argv := template.Render(inputPath, outputPath)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running codec command", zap.Strings("argv", argv))
	err := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		// CommandContext killed the process; nothing is left running.
		result.TimedOut = true
		result.ExitCode = -1
		return result, fmt.Errorf("%w after %s: %s", ErrProcessTimeout, r.timeout, template)
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug("Codec command exited non-zero",
				zap.Int("exit_code", result.ExitCode),
				zap.String("command", string(template)))
			return result, nil
		}
		// Could not start at all (missing binary, bad permissions).
		return result, fmt.Errorf("%w: %v", ErrProcessFailure, err)
	}

	result.ExitCode = 0
	return result, nil
}
