package memory

import (
	"context"
	"errors"
	"testing"

	"booklog/internal/core"
)

func TestMemoryStoreUpsertAndLoad(t *testing.T) {
	s := New(core.RawBook{ID: "1", Title: "First"})
	got, err := s.LoadBooks(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected load: %v err=%v", got, err)
	}

	n, err := s.UpsertBooks(context.Background(), []core.RawBook{{ID: "2"}, {ID: "3"}})
	if err != nil || n != 2 {
		t.Fatalf("unexpected upsert: n=%d err=%v", n, err)
	}
	got, _ = s.LoadBooks(context.Background())
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("order not kept: %v", got)
	}

	// Callers must not be able to mutate the store.
	got[0].ID = "x"
	again, _ := s.LoadBooks(context.Background())
	if again[0].ID != "2" {
		t.Fatalf("store mutated through returned slice")
	}
}

func TestMemoryStoreFail(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.Fail(boom)
	if _, err := s.LoadBooks(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	s.Fail(nil)
	if _, err := s.LoadBooks(context.Background()); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}
