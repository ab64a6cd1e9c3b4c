package codec_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pombreda/soundforest/core/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeScript drops an executable shell script into dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunnerCopiesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.flac")
	out := filepath.Join(dir, "out.wav")
	require.NoError(t, os.WriteFile(in, []byte("payload"), 0o644))

	r := codec.NewRunner(codec.Config{MaxProcs: 2, TimeoutSeconds: 30}, zap.NewNop())

	res, err := r.Run(context.Background(), "cp FILE OUTFILE", in, out)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)

	copied, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(copied))
}

func TestRunnerCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "noisy.sh", `echo "stdout line"; echo "stderr line" >&2`)

	r := codec.NewRunner(codec.Config{MaxProcs: 1, TimeoutSeconds: 30}, zap.NewNop())

	res, err := r.Run(context.Background(), codec.Template(script+" FILE"), "/dev/null", "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "stdout line")
	assert.Contains(t, res.Stderr, "stderr line")
}

func TestRunnerNonZeroExitIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fail.sh", `echo "broken stream" >&2; exit 3`)

	r := codec.NewRunner(codec.Config{MaxProcs: 1, TimeoutSeconds: 30}, zap.NewNop())

	res, err := r.Run(context.Background(), codec.Template(script+" FILE"), "/dev/null", "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "broken stream")
}

func TestRunnerMissingBinary(t *testing.T) {
	r := codec.NewRunner(codec.Config{MaxProcs: 1, TimeoutSeconds: 30}, zap.NewNop())

	_, err := r.Run(context.Background(), "definitely-not-a-real-binary FILE", "/dev/null", "")
	assert.ErrorIs(t, err, codec.ErrProcessFailure)
}

func TestRunnerTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "slow.sh", `sleep 30`)

	r := codec.NewRunner(codec.Config{MaxProcs: 1, TimeoutSeconds: 1}, zap.NewNop())

	res, err := r.Run(context.Background(), codec.Template(script+" FILE"), "/dev/null", "")
	assert.ErrorIs(t, err, codec.ErrProcessTimeout)
	require.NotNil(t, res)
	assert.True(t, res.TimedOut)
}

func TestRunnerCancelledBeforeStart(t *testing.T) {
	r := codec.NewRunner(codec.Config{MaxProcs: 1, TimeoutSeconds: 30}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "cp FILE OUTFILE", "/dev/null", "/dev/null")
	assert.ErrorIs(t, err, context.Canceled)
}
