// Package output builds termenv writers with the color policy used across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the profile for interactive output. NO_COLOR or a
// plain request force Ascii; otherwise the terminal is asked.
func ColorProfile(plain bool) termenv.Profile {
	if plain || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, plain bool, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile(plain)),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
