package domain

import (
	"fmt"
	"strings"
)

// OptionsPerQuestion is the number of answer options every question carries.
const OptionsPerQuestion = 4

// Question models an MCQ question with exactly one correct option.
type Question struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Correct string   `json:"correct" yaml:"correct"`
}

// Validate checks the record before it may enter a session.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: missing prompt", ErrMalformedQuestion)
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("%w: want %d options, got %d", ErrMalformedQuestion, OptionsPerQuestion, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrMalformedQuestion, i+1)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: duplicate option %q", ErrMalformedQuestion, opt)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.Correct]; !ok {
		return fmt.Errorf("%w: answer %q is not one of the options", ErrMalformedQuestion, q.Correct)
	}
	return nil
}

// Screen identifies which view the navigation controller is showing.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenTopicList Screen = "topics"
	ScreenQuiz      Screen = "quiz"
	ScreenResults   Screen = "results"
)

// Phase is the state of the question flow for the active session.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhasePresenting Phase = "presenting"
	PhaseLocked     Phase = "locked"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Outcome is recorded once per question when it locks.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeTimeout Outcome = "timeout"
)

// Theme is the persisted light/dark preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// State is a read-only snapshot of navigation and session progress.
type State struct {
	Screen  Screen `json:"screen"`
	Subject string `json:"subject,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Phase   Phase  `json:"phase,omitempty"`
	Index   int    `json:"index"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}
