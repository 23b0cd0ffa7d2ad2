package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sheet-quiz/internal/domain"
)

// Source drivers.
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceStatic   = "static"
)

// Preference drivers.
const (
	PrefsFile   = "file"
	PrefsRedis  = "redis"
	PrefsSQLite = "sqlite"
	PrefsMemory = "memory"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
	Source struct {
		Driver     string `yaml:"driver"`
		BaseURL    string `yaml:"base_url"`
		Timeout    string `yaml:"timeout"`
		CacheTTL   string `yaml:"cache_ttl"`
		StaticPath string `yaml:"static_path"`
	} `yaml:"source"`
	Quiz struct {
		TimeLimit    string `yaml:"time_limit"`
		AdvanceDelay string `yaml:"advance_delay"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Preferences struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
		Theme  string `yaml:"default_theme"`
	} `yaml:"preferences"`
	Subjects []domain.Subject `yaml:"catalog"`
}

// Load reads YAML config from path and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Source.Driver == "" {
		c.Source.Driver = SourceSheets
	}
	if c.Preferences.Driver == "" {
		c.Preferences.Driver = PrefsFile
	}
	if c.Preferences.Path == "" {
		switch c.Preferences.Driver {
		case PrefsSQLite:
			c.Preferences.Path = "data/preferences.db"
		default:
			c.Preferences.Path = "data/preferences.yaml"
		}
	}
}

func (c Config) validate() error {
	switch c.Source.Driver {
	case SourceSheets:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required for the sheets driver")
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for the postgres driver")
		}
	case SourceStatic:
		if c.Source.StaticPath == "" {
			return fmt.Errorf("source.static_path is required for the static driver")
		}
	default:
		return fmt.Errorf("unknown source.driver %q", c.Source.Driver)
	}
	switch c.Preferences.Driver {
	case PrefsFile, PrefsSQLite, PrefsMemory:
	case PrefsRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis preference driver")
		}
	default:
		return fmt.Errorf("unknown preferences.driver %q", c.Preferences.Driver)
	}
	if c.Preferences.Theme != "" {
		if _, err := domain.ParseTheme(c.Preferences.Theme); err != nil {
			return fmt.Errorf("preferences.default_theme: %w", err)
		}
	}
	return nil
}

// Catalog builds the validated subject menu.
func (c Config) Catalog() (domain.Catalog, error) {
	if len(c.Subjects) == 0 {
		return domain.Catalog{}, fmt.Errorf("%w: no subjects configured", domain.ErrInvalidCatalog)
	}
	return domain.NewCatalog(c.Subjects)
}

// DefaultTheme is the theme used until the player toggles one.
func (c Config) DefaultTheme() domain.Theme {
	theme, err := domain.ParseTheme(c.Preferences.Theme)
	if err != nil {
		return domain.ThemeDark
	}
	return theme
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
