package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates():
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("no config update")
		return Update{}
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nmove_step = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[canvas]\nmove_step = 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	u := waitUpdate(t, w)
	if u.Err != nil || u.Config.Canvas.MoveStep != 4 {
		t.Fatalf("update = %+v", u)
	}

	// replace by rename, the way many editors save
	tmp := filepath.Join(dir, "config.toml.tmp")
	if err := os.WriteFile(tmp, []byte("[canvas]\nmove_step = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	u = waitUpdate(t, w)
	if u.Err == nil {
		t.Errorf("invalid file produced config %+v", u.Config.Canvas)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	w, err := Watch(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case u := <-w.Updates():
		t.Errorf("unexpected update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
