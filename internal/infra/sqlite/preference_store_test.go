package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestPreferenceStoreUpserts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quiz.db")

	store, err := NewPreferenceStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, err := store.Get(ctx, "theme"); err != nil || ok {
		t.Fatalf("expected no row, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewPreferenceStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Get(ctx, "theme")
	if err != nil || !ok || value != "dark" {
		t.Fatalf("expected dark, got %q ok=%v err=%v", value, ok, err)
	}
}
