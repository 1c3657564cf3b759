package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("missing key should not be found")
	}

	s.Set(ctx, "k", "v")
	got, ok := s.Get(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("expected cached value, got %v found=%v", got, ok)
	}

	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("deleted key should not be found")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	ctx := context.Background()
	loads := 0

	load := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrLoad(ctx, "k", load)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got != "loaded" {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if loads != 1 {
		t.Fatalf("expected one load, got %d", loads)
	}

	_, err := s.GetOrLoad(ctx, "bad", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("loader error should propagate")
	}
}
