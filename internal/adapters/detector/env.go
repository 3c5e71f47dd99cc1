// Package detector picks the output format from the terminal and CI environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is the format used for progress and diagnostics.
type OutputMode int

const (
	// ModeAuto defers to DetectEnvironment.
	ModeAuto OutputMode = iota
	// ModePretty writes colored lines with icons.
	ModePretty
	// ModePlain writes uncolored lines.
	ModePlain
	// ModeJSON writes one JSON object per line.
	ModeJSON
)

func (m OutputMode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns ModePlain when stderr is not a terminal or a CI
// environment variable is set, ModePretty otherwise.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModePretty
}

// ResolveMode applies the --output flag (or conductor.yaml output setting) to
// the detected mode. Unknown values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "plain":
		return ModePlain
	case "json":
		return ModeJSON
	default:
		return autoDetected
	}
}
