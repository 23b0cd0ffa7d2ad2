package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestPreferenceStoreSetsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewPreferenceStore(newClient(mr))
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "theme"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("quiz:pref:theme"); got != "light" {
		t.Fatalf("expected redis value light, got %q", got)
	}
	value, ok, err := store.Get(ctx, "theme")
	if err != nil || !ok || value != "light" {
		t.Fatalf("expected light, got %q ok=%v err=%v", value, ok, err)
	}
}
