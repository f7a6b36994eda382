package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsCadenzaFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.cdz")

	changed := make(chan string, 10)
	w, err := NewWatcher(dir, func(path string) { changed <- path })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(file, []byte("function main() -> int { return 0 }"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-changed:
		if got != file {
			t.Errorf("expected %s, got %s", file, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcherIgnoresNonCadenzaFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")

	changed := make(chan string, 10)
	w, err := NewWatcher(dir, func(path string) { changed <- path })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-changed:
		t.Errorf("expected no notification for non-.cdz file, got %s", got)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.cdz")

	changed := make(chan string, 10)
	w, err := NewWatcher(dir, func(path string) { changed <- path })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte("function main() -> int { return 0 }"), 0o644); err != nil {
			t.Fatalf("writing file: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced change notification")
	}

	select {
	case got := <-changed:
		t.Errorf("expected rapid writes to collapse into one notification, got extra: %s", got)
	case <-time.After(500 * time.Millisecond):
	}
}
