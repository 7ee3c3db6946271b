package cache

import (
	"context"
	"testing"
	"time"
)

func TestBadgerStore_RoundTripInMemory(t *testing.T) {
	t.Parallel()

	store, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if _, ok, err := store.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "api_football:/leagues", []byte(`{"response":[]}`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, "api_football:/leagues")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"response":[]}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestBadgerStore_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen badger: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, ok, err := reopened.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("expected persisted value, got=%q ok=%v err=%v", got, ok, err)
	}
}
