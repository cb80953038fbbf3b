package render

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

// Format selects the output representation
type Format string

const (
	FormatTree  Format = "tree"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ParseFormat converts a configuration value to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "tree":
		return FormatTree, nil
	case "plain", "text":
		return FormatPlain, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown render style: %s", s).
			WithDetail("style", s)
	}
}

// ColorEnabled applies a render.color mode (auto, always, never) to w
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}
