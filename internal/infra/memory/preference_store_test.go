package memory

import (
	"context"
	"testing"
)

func TestPreferenceStoreRoundTrip(t *testing.T) {
	store := NewPreferenceStore()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "theme"); ok {
		t.Fatalf("expected empty store")
	}
	if err := store.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, "theme")
	if err != nil || !ok || value != "light" {
		t.Fatalf("expected light, got %q ok=%v err=%v", value, ok, err)
	}
}
