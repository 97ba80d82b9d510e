package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_Poll(t *testing.T) {
	tmpDir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	page := filepath.Join(tmpDir, "index.yaml")
	touch(t, page, "type: p", base)

	w := NewWatcher(WatcherConfig{Paths: []string{tmpDir}})
	if got := w.Poll(); len(got) != 0 {
		t.Fatalf("first Poll() = %v, want nothing", got)
	}
	if got := w.Poll(); len(got) != 0 {
		t.Fatalf("unchanged Poll() = %v, want nothing", got)
	}

	touch(t, page, "type: div", base.Add(time.Minute))
	added := filepath.Join(tmpDir, "sub", "style.css")
	touch(t, added, "p{}", base)

	got := w.Poll()
	if len(got) != 2 {
		t.Fatalf("Poll() = %v, want 2 changes", got)
	}
	if got[0].Path != page || got[0].Type != ChangeDocument {
		t.Errorf("changes[0] = %+v", got[0])
	}
	if got[1].Path != added || got[1].Type != ChangeAsset {
		t.Errorf("changes[1] = %+v", got[1])
	}

	if err := os.Remove(page); err != nil {
		t.Fatal(err)
	}
	got = w.Poll()
	if len(got) != 1 || !got[0].Removed {
		t.Errorf("Poll() after remove = %+v", got)
	}
}

func TestWatcher_FirstFileInEmptyDir(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewWatcher(WatcherConfig{Paths: []string{tmpDir}})
	w.Poll()

	touch(t, filepath.Join(tmpDir, "new.json"), "{}", time.Now())
	if got := w.Poll(); len(got) != 1 {
		t.Errorf("Poll() = %v, want the new file", got)
	}
}

func TestWatcher_Ignore(t *testing.T) {
	tests := []struct {
		path   string
		ignore bool
	}{
		{"/p/.git/config", true},
		{"/p/node_modules/x.json", true},
		{"/p/pages/a.yaml.swp", true},
		{"/p/pages/a.yaml", false},
		{"/p/pages/build/out.yaml", true},
		{"/p/pages/builder.yaml", false},
		{"/p/gen/x.yaml", true},
	}
	w := NewWatcher(WatcherConfig{Ignore: append(DefaultIgnore, "pages/build", "/p/gen/*")})
	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.ignore {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.ignore)
		}
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"pages/index.yaml", ChangeDocument},
		{"pages/a.YML", ChangeDocument},
		{"pages/a.json", ChangeDocument},
		{"markup.json", ChangeConfig},
		{"markup.yaml", ChangeConfig},
		{"logo.png", ChangeAsset},
	}
	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_StartStop(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewWatcher(WatcherConfig{Paths: []string{tmpDir}, Interval: 10 * time.Millisecond})

	changes := make(chan []Change, 10)
	w.OnChange(func(c []Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !w.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(30 * time.Millisecond)
	touch(t, filepath.Join(tmpDir, "page.yaml"), "type: p", time.Now())

	select {
	case c := <-changes:
		if c[0].Type != ChangeDocument {
			t.Errorf("change type = %v", c[0].Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v, want nil after Stop", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if w.IsRunning() {
		t.Error("IsRunning() after Stop")
	}
}
