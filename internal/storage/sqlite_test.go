package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newSQLite(t *testing.T, kinds int) *SQLiteCounter {
	t.Helper()
	store, err := NewSQLiteCounter(filepath.Join(t.TempDir(), "nested", "site.db"), kinds)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteCounter_Views(t *testing.T) {
	store := newSQLite(t, 0)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrementViews(ctx, "trip")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("IncrementViews = %d, want %d", got, want)
		}
	}
	if _, err := store.IncrementViews(ctx, "other"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Views(ctx, "other", "unknown", "trip")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{1, 0, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Views = %v, want %v", got, want)
	}
	if got, _ := store.Views(ctx); len(got) != 0 {
		t.Errorf("Views() = %v", got)
	}
}

func TestSQLiteCounter_Reactions(t *testing.T) {
	store := newSQLite(t, 0)
	ctx := context.Background()

	got, err := store.Reactions(ctx, "trip")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{0, 0, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("initial Reactions = %v", got)
	}

	_, _ = store.AddReaction(ctx, "trip", 2)
	got, err = store.AddReaction(ctx, "trip", 2)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = store.AddReaction(ctx, "trip", 0)
	got, _ = store.Reactions(ctx, "trip")
	if want := []int64{1, 0, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Reactions = %v, want %v", got, want)
	}

	for _, bad := range []int{-1, 4} {
		if _, err := store.AddReaction(ctx, "trip", bad); !errors.Is(err, ErrInvalidReaction) {
			t.Errorf("AddReaction(%d) err = %v", bad, err)
		}
	}
}

func TestSQLiteCounter_customKinds(t *testing.T) {
	store := newSQLite(t, 2)
	got, err := store.Reactions(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSQLiteCounter_persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	ctx := context.Background()
	store, err := NewSQLiteCounter(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.IncrementViews(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteCounter(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, _ := reopened.Views(ctx, "a")
	if got[0] != 1 {
		t.Errorf("views after reopen = %d", got[0])
	}
}

func TestOpen(t *testing.T) {
	c, err := Open("sqlite", filepath.Join(t.TempDir(), "a.db"), "", 4)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Close()
	if _, err := Open("postgres", "", "", 4); err == nil {
		t.Error("unknown backend should fail")
	}
	if _, err := Open("redis", "", "not a url", 4); err == nil {
		t.Error("bad redis url should fail")
	}
}
