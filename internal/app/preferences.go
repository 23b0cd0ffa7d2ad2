package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"sheet-quiz/internal/domain"
)

// ThemeKey is the fixed preference key the theme is stored under.
const ThemeKey = "theme"

// PreferenceStore abstracts how preferences are persisted (memory, file, Redis, SQLite).
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Preferences reads the theme at startup and writes it on toggle.
type Preferences struct {
	store    PreferenceStore
	fallback domain.Theme
	log      hclog.Logger
}

func NewPreferences(store PreferenceStore, fallback domain.Theme, logger hclog.Logger) *Preferences {
	if fallback == "" {
		fallback = domain.ThemeDark
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Preferences{store: store, fallback: fallback, log: logger}
}

// Theme returns the stored theme, or the fallback when nothing usable is stored.
func (p *Preferences) Theme(ctx context.Context) domain.Theme {
	raw, ok, err := p.store.Get(ctx, ThemeKey)
	if err != nil {
		p.log.Warn("reading theme preference", "error", err)
		return p.fallback
	}
	if !ok {
		return p.fallback
	}
	theme, err := domain.ParseTheme(raw)
	if err != nil {
		p.log.Warn("ignoring stored theme", "error", err)
		return p.fallback
	}
	return theme
}

// SetTheme persists an explicit theme.
func (p *Preferences) SetTheme(ctx context.Context, theme domain.Theme) error {
	if _, err := domain.ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := p.store.Set(ctx, ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}
	return nil
}

// ToggleTheme flips the current theme and persists the result.
func (p *Preferences) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	next := p.Theme(ctx).Toggle()
	if err := p.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
