// Package detector chooses between the interactive and the linear renderer.
package detector

import (
	"os"

	"go.trai.ch/smake/internal/core/domain"
	"golang.org/x/term"
)

// DetectEnvironment returns domain.OutputTUI when stdout is a terminal outside CI,
// domain.OutputLinear otherwise.
func DetectEnvironment() string {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) string {
	if !isTTY || ci == "true" || ci == "1" {
		return domain.OutputLinear
	}
	return domain.OutputTUI
}

// ResolveMode applies the configured mode on top of the detected one.
// "ci" is accepted as an alias for linear; unknown values fall back to detection.
func ResolveMode(detected, configured string) string {
	switch configured {
	case domain.OutputTUI:
		return domain.OutputTUI
	case domain.OutputLinear, "ci":
		return domain.OutputLinear
	default:
		return detected
	}
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
