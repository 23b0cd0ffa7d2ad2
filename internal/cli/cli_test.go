package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"sheet-quiz/internal/config"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bank := filepath.Join(dir, "questions.yaml")
	if err := os.WriteFile(bank, []byte(`
add:
  - prompt: What is 2 + 2?
    options: ["3", "4", "5", "6"]
    correct: "4"
`), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := `
source:
  driver: static
  static_path: ` + bank + `
preferences:
  driver: file
  path: ` + filepath.Join(dir, "prefs.yaml") + `
  default_theme: dark
catalog:
  - name: Math
    topics:
      - name: Addition
        sheet: add
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestThemeCommandTogglesStoredPreference(t *testing.T) {
	cfgPath := writeFixture(t)

	runCmd := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append(args, "--config", cfgPath))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return strings.TrimSpace(out.String())
	}

	if got := runCmd("theme", "get"); got != "dark" {
		t.Fatalf("expected default dark, got %q", got)
	}
	if got := runCmd("theme", "toggle"); got != "light" {
		t.Fatalf("expected light after toggle, got %q", got)
	}
	if got := runCmd("theme"); got != "light" {
		t.Fatalf("expected stored light, got %q", got)
	}
}

func TestLoadDepsWiresStaticSource(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	d, err := loadDeps(ctx, cfg, hclog.NewNullLogger(), true)
	if err != nil {
		t.Fatalf("load deps: %v", err)
	}
	defer d.Close()

	questions, err := d.source.FetchQuestions(ctx, "add")
	if err != nil || len(questions) != 1 {
		t.Fatalf("expected one question, got %v err=%v", questions, err)
	}
	if _, ok := d.catalog.FindTopic("Math", "add"); !ok {
		t.Fatalf("expected catalog from config")
	}
	if d.newEngine().State().Screen != "home" {
		t.Fatalf("engine should start on home")
	}
}
