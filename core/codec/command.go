package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pombreda/soundforest/core/models"
)

var (
	// ErrInvalidCodecCommand reports a command template missing its required
	// FILE/OUTFILE placeholders. Raised at registration, before any
	// execution is attempted.
	ErrInvalidCodecCommand = errors.New("invalid codec command")

	// ErrProcessTimeout reports a codec process terminated at its deadline.
	ErrProcessTimeout = errors.New("codec process timed out")

	// ErrProcessFailure reports a codec process that could not be started.
	ErrProcessFailure = errors.New("codec process failed")
)

// Placeholder tokens substituted when a template is rendered.
const (
	placeholderInput  = "FILE"
	placeholderOutput = "OUTFILE"
)

// Template is one codec command with path placeholders.
type Template string

// Validate checks the template for the placeholders its role requires:
// decoders and encoders take exactly one FILE and one OUTFILE; testers only
// verify, so they take exactly one FILE and no OUTFILE.
func (t Template) Validate(role models.CommandRole) error {
	argv := strings.Fields(string(t))
	if len(argv) == 0 {
		return fmt.Errorf("%w: empty template", ErrInvalidCodecCommand)
	}
	files, outfiles := 0, 0
	for _, a := range argv {
		switch a {
		case placeholderInput:
			files++
		case placeholderOutput:
			outfiles++
		}
	}
	if files != 1 {
		return fmt.Errorf("%w: %q requires exactly one FILE", ErrInvalidCodecCommand, t)
	}
	switch role {
	case models.RoleTester:
		if outfiles != 0 {
			return fmt.Errorf("%w: tester %q takes no OUTFILE", ErrInvalidCodecCommand, t)
		}
	default:
		if outfiles != 1 {
			return fmt.Errorf("%w: %q requires exactly one OUTFILE", ErrInvalidCodecCommand, t)
		}
	}
	return nil
}

// Render substitutes the placeholders and returns the argv to execute.
func (t Template) Render(inputPath, outputPath string) []string {
	argv := strings.Fields(string(t))
	out := make([]string, len(argv))
	for i, a := range argv {
		switch a {
		case placeholderInput:
			out[i] = inputPath
		case placeholderOutput:
			out[i] = outputPath
		default:
			out[i] = a
		}
	}
	return out
}
