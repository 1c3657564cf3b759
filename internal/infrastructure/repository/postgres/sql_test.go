package postgres

import (
	"database/sql"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(sql.ErrConnDone) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestJSONBColumn(t *testing.T) {
	t.Run("nil value becomes NULL", func(t *testing.T) {
		got, err := jsonbColumn(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("empty map becomes NULL", func(t *testing.T) {
		got, err := jsonbColumn(map[string]any{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("round trips a map", func(t *testing.T) {
		raw, err := jsonbColumn(map[string]any{"rank": 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		decoded, err := fromJSONBColumn[map[string]any](raw.([]byte))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(decoded) != 1 {
			t.Fatalf("unexpected decoded value: %v", decoded)
		}
	})
}

func TestFromJSONBColumn(t *testing.T) {
	t.Run("empty bytes produce zero value", func(t *testing.T) {
		got, err := fromJSONBColumn[[]string](nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil slice, got %v", got)
		}
	})

	t.Run("decodes a slice", func(t *testing.T) {
		got, err := fromJSONBColumn[[]string]([]byte(`["podium","century"]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != "podium" {
			t.Fatalf("unexpected decoded slice: %v", got)
		}
	})
}
