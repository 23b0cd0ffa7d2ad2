package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{Prompt: "2+2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	cases := map[string]Question{
		"no prompt":        {Prompt: " ", Options: valid.Options, Correct: "4"},
		"three options":    {Prompt: "2+2?", Options: []string{"3", "4", "5"}, Correct: "4"},
		"empty option":     {Prompt: "2+2?", Options: []string{"3", "4", "", "6"}, Correct: "4"},
		"duplicate option": {Prompt: "2+2?", Options: []string{"3", "4", "4", "6"}, Correct: "4"},
		"answer missing":   {Prompt: "2+2?", Options: valid.Options, Correct: "7"},
	}
	for name, q := range cases {
		if err := q.Validate(); !errors.Is(err, ErrMalformedQuestion) {
			t.Fatalf("%s: expected ErrMalformedQuestion, got %v", name, err)
		}
	}
}

func TestParseThemeAndToggle(t *testing.T) {
	theme, err := ParseTheme(" Light ")
	if err != nil || theme != ThemeLight {
		t.Fatalf("expected light, got %q err=%v", theme, err)
	}
	if theme.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Fatalf("toggle must flip between light and dark")
	}
	if _, err := ParseTheme("sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(nil) != "" {
		t.Fatalf("nil error has no message")
	}
	if msg := UserMessage(ErrEmptyResult); !strings.HasPrefix(msg, "No questions found") {
		t.Fatalf("unexpected empty-result message %q", msg)
	}
	if msg := UserMessage(errors.New("dial tcp: refused")); !strings.HasPrefix(msg, "API error") || !strings.Contains(msg, "refused") {
		t.Fatalf("unexpected transport message %q", msg)
	}
}
