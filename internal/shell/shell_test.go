package shell

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLowercase(t *testing.T) {
	sh, err := Parse("zsh")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sh != Zsh {
		t.Errorf("expected Zsh, got %v", sh)
	}
}

func TestParseMixedCase(t *testing.T) {
	sh, err := Parse("Bash")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sh != Bash {
		t.Errorf("expected Bash, got %v", sh)
	}
}

func TestParseWhitespace(t *testing.T) {
	if _, err := Parse("zsh "); err != nil {
		t.Errorf("surrounding whitespace should be ignored: %v", err)
	}
}

func TestParseUnknownShell(t *testing.T) {
	_, err := Parse("powershell")
	var uErr *UnknownShellError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected UnknownShellError, got %v", err)
	}
	if uErr.Name != "powershell" {
		t.Errorf("expected name in error, got %q", uErr.Name)
	}
}

func TestRenderInterpolatesExecutable(t *testing.T) {
	out := Render(Bash, "/usr/local/bin/beam")
	if strings.Contains(out, token) {
		t.Error("token must be fully replaced")
	}
	if !strings.Contains(out, `"/usr/local/bin/beam" jump`) {
		t.Error("expected quoted executable in jump call")
	}
	if !strings.Contains(out, `"/usr/local/bin/beam" add "$PWD"`) {
		t.Error("expected quoted executable in tracking hook")
	}
}

func TestRenderPutsExcludeBeforePattern(t *testing.T) {
	// Flag parsing stops at the first positional argument, so the jump
	// invocation must pass --exclude before the pattern or it is dropped.
	for _, sh := range []Shell{Bash, Zsh} {
		out := Render(sh, "/usr/local/bin/beam")
		if !strings.Contains(out, `jump --exclude "$PWD" "$1"`) {
			t.Errorf("jump call must pass --exclude before the pattern:\n%s", out)
		}
	}
}

func TestRenderQuotesPathsWithSpaces(t *testing.T) {
	out := Render(Zsh, "/Applications/My Tools/beam")
	if !strings.Contains(out, `"/Applications/My Tools/beam"`) {
		t.Error("paths with spaces must stay quoted")
	}
}
