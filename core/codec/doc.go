// Package codec holds the registry of audio codecs and the safe external
// process abstraction for their decoder, encoder and tester commands.
//
// A command is a shell-like template ("flac -f --silent --decode -o OUTFILE
// FILE") whose FILE and OUTFILE placeholders are substituted with concrete
// paths at run time. Templates are validated at registration; execution is
// bounded by a per-process timeout and a fixed-size worker pool, and a
// non-zero exit is reported as a result rather than raised, so batch
// verification continues across files.
package codec
