package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() (changed, removed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.changed...), append([]string(nil), r.removed...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startWatcher(t *testing.T, dir string, rec *recorder) *Watcher {
	t.Helper()
	w := New(dir, ".mdx", rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec)

	post := filepath.Join(dir, "kyoto.mdx")
	for i := 0; i < 3; i++ {
		if err := writeFile(post, strings.Repeat("x", i+1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writeFile(filepath.Join(dir, "notes.txt"), "skip"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		changed, _ := rec.snapshot()
		return len(changed) > 0
	})
	time.Sleep(200 * time.Millisecond)
	changed, _ := rec.snapshot()
	if len(changed) != 1 || changed[0] != post {
		t.Errorf("changed = %v, want one callback for %s", changed, post)
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	post := filepath.Join(dir, "gone.mdx")
	if err := writeFile(post, "x"); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, dir, rec)

	if err := os.Remove(post); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		_, removed := rec.snapshot()
		return len(removed) == 1
	})
	_, removed := rec.snapshot()
	if removed[0] != post {
		t.Errorf("removed = %v", removed)
	}
}

func TestWatcher_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec)

	sub := filepath.Join(dir, "drafts.mdx")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "real.mdx"), "x"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		changed, _ := rec.snapshot()
		return len(changed) > 0
	})
	time.Sleep(200 * time.Millisecond)
	changed, _ := rec.snapshot()
	for _, p := range changed {
		if p == sub {
			t.Errorf("directory reported as a change: %v", changed)
		}
	}
}

func TestWatcher_SyncExisting(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mdx", "a.mdx", "ignore.txt"} {
		if err := writeFile(filepath.Join(dir, name), "x"); err != nil {
			t.Fatal(err)
		}
	}
	rec := &recorder{}
	w := New(dir, ".mdx", rec.onChange, nil)
	if err := w.SyncExisting(); err != nil {
		t.Fatal(err)
	}
	changed, _ := rec.snapshot()
	want := []string{filepath.Join(dir, "a.mdx"), filepath.Join(dir, "b.mdx")}
	if strings.Join(changed, ",") != strings.Join(want, ",") {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcher_SyncExistingMissingDir(t *testing.T) {
	rec := &recorder{}
	w := New(filepath.Join(t.TempDir(), "nope"), ".mdx", rec.onChange, nil)
	if err := w.SyncExisting(); err != nil {
		t.Errorf("SyncExisting on missing dir: %v", err)
	}
}

func TestWatcher_Start_createsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content", "posts")
	w := New(dir, ".mdx", nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory should exist after Start: %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(t.TempDir(), ".mdx", nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path      string
		extension string
		want      bool
	}{
		{"/a/b.mdx", ".mdx", true},
		{"/a/b.MDX", ".mdx", true},
		{"/a/b.mdx", "mdx", true},
		{"/a/b.md", ".mdx", false},
		{"/a/b", "", true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.extension); got != tt.want {
			t.Errorf("matchExtension(%q, %q) = %v, want %v", tt.path, tt.extension, got, tt.want)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
