package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewRegisteredCode(t *testing.T) {
	err := New("E101")
	if err.Code != "E101" {
		t.Errorf("Code = %q, want E101", err.Code)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want config", err.Category)
	}
	if err.Message == "" {
		t.Error("Message should be populated from the registry")
	}
	if !strings.Contains(err.Error(), "E101") {
		t.Errorf("Error() = %q, should contain the code", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Code != "E999" {
		t.Errorf("Code = %q, want E999", err.Code)
	}
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestRegistered(t *testing.T) {
	if !Registered("E101") {
		t.Error("E101 should be registered")
	}
	if Registered("E999") {
		t.Error("E999 should not be registered")
	}
}

func TestUnwrap(t *testing.T) {
	base := stderrors.New("disk full")
	err := New("E102").Wrap(base)
	if !stderrors.Is(err, base) {
		t.Error("errors.Is should see through Wrap")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "bad flag %q", "--frob")
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != `bad flag "--frob"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E102") != nil {
		t.Error("FromError(nil) should be nil")
	}

	ce := New("E201")
	if FromError(ce, "E102") != ce {
		t.Error("FromError should pass CLIError through unchanged")
	}

	wrapped := FromError(stderrors.New("boom"), "E102")
	if wrapped.Code != "E102" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E201").
		WithDetail("Profile 'turbo' is not defined.").
		WithSuggestion("Use one of: fast, standard, stress")

	out := err.Format()
	for _, want := range []string{"E201", "turbo", "Hint:", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E103").Wrap(stderrors.New("unexpected end of JSON input"))
	got := err.FormatCompact()
	if !strings.HasPrefix(got, "E103: ") || !strings.Contains(got, "unexpected end") {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
