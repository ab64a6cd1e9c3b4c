package codec

import (
	"context"
	"fmt"

	"github.com/pombreda/soundforest/core/store"

	"go.uber.org/zap"
)

// TestCallback receives the outcome of one file's verification. err is set
// when the file could not be tested at all (no codec, no tester command,
// process failure); passed is the tester's verdict.
type TestCallback func(path string, passed bool, err error, stdout, stderr string)

// Test applies each file's codec tester command and reports every outcome
// through the callback. A failing or untestable file never aborts the batch;
// the return value is the number of failures, zero meaning all passed.
func (r *Registry) Test(ctx context.Context, runner *Runner, paths []string, cb TestCallback) (int, error) {
	failed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		c, err := r.Match(path)
		if err != nil {
			failed++
			cb(path, false, err, "", "")
			continue
		}
		testers := r.Testers(c)
		if len(testers) == 0 {
			failed++
			cb(path, false, fmt.Errorf("codec %q has no tester: %w", c.Name, store.ErrNotFound), "", "")
			continue
		}

		res, err := runner.Run(ctx, testers[0], path, "")
		if err != nil {
			failed++
			cb(path, false, err, resultStdout(res), resultStderr(res))
			continue
		}
		passed := res.ExitCode == 0
		if !passed {
			failed++
		}
		cb(path, passed, nil, res.Stdout, res.Stderr)
	}

	if failed > 0 {
		r.logger.Info("Codec verification finished with failures",
			zap.Int("tested", len(paths)),
			zap.Int("failed", failed))
	}
	return failed, nil
}

func resultStdout(res *Result) string {
	if res == nil {
		return ""
	}
	return res.Stdout
}

func resultStderr(res *Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}
