package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sheet-quiz/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndBuildsCatalog(t *testing.T) {
	path := writeConfig(t, `
source:
  base_url: https://example.test/exec
quiz:
  time_limit: 20s
catalog:
  - name: Internet Of Things
    topics:
      - name: IOT UT1 (I)
        sheet: IOT UT1 (I)
  - name: Big Data
    topics:
      - name: Big Data UT1 (I)
        sheet: BD UT1 (I)
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Driver != SourceSheets || cfg.Preferences.Driver != PrefsFile || cfg.Log.Level != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if got := Duration(cfg.Quiz.TimeLimit, time.Second); got != 20*time.Second {
		t.Fatalf("expected 20s, got %v", got)
	}
	if cfg.DefaultTheme() != domain.ThemeDark {
		t.Fatalf("expected dark default theme")
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	topic, ok := catalog.FindTopic("Big Data", "BD UT1 (I)")
	if !ok || topic.Name != "Big Data UT1 (I)" {
		t.Fatalf("expected Big Data topic, got %+v ok=%v", topic, ok)
	}
}

func TestLoadRejectsIncompleteDrivers(t *testing.T) {
	cases := map[string]string{
		"sheets without url":   "source:\n  driver: sheets\n",
		"postgres without url": "source:\n  driver: postgres\n",
		"unknown prefs":        "source:\n  base_url: x\npreferences:\n  driver: etcd\n",
		"bad theme":            "source:\n  base_url: x\npreferences:\n  default_theme: sepia\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCatalogRequiresSubjects(t *testing.T) {
	if _, err := (Config{}).Catalog(); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestDurationFallback(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("empty string should fall back, got %v", got)
	}
	if got := Duration("soon", time.Minute); got != time.Minute {
		t.Fatalf("invalid string should fall back, got %v", got)
	}
}
