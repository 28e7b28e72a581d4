// Package shell renders the per-shell integration scripts. The scripts
// define the jump function and a directory-change hook that records
// visits; beam prints them for the user to eval from their rc file.
package shell

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed beam.bash
var bashScript string

//go:embed beam.zsh
var zshScript string

// token is replaced with the quoted path of the running executable so the
// emitted script survives beam living outside $PATH.
const token = "__BEAM__"

// Shell is a supported shell.
type Shell int

const (
	Bash Shell = iota
	Zsh
)

// UnknownShellError reports an unsupported shell name.
type UnknownShellError struct {
	Name string
}

func (e *UnknownShellError) Error() string {
	return fmt.Sprintf("%q is not a supported shell, must be one of: bash, zsh", e.Name)
}

// Parse resolves a shell name, case-insensitively and ignoring
// surrounding whitespace.
func Parse(name string) (Shell, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bash":
		return Bash, nil
	case "zsh":
		return Zsh, nil
	default:
		return 0, &UnknownShellError{Name: name}
	}
}

// Script returns the integration script for sh, bound to the current
// executable.
func Script(sh Shell) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("shell: locate executable: %w", err)
	}
	return Render(sh, exe), nil
}

// Render substitutes the executable path into the raw script template.
func Render(sh Shell, exePath string) string {
	var script string
	switch sh {
	case Zsh:
		script = zshScript
	default:
		script = bashScript
	}
	return strings.ReplaceAll(script, token, fmt.Sprintf("%q", exePath))
}
