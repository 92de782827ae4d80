package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterRotatesPastLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, err := newRotatingWriter(path, 16)
	if err != nil {
		t.Fatalf("newRotatingWriter: %v", err)
	}
	if _, err := w.Write([]byte("0123456789\n")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := w.Write([]byte("abcdefghij\n")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	_ = w.f.Close()

	archived, err := os.ReadFile(archiveName(path, 1))
	if err != nil {
		t.Fatalf("expected archive .1: %v", err)
	}
	if !strings.HasPrefix(string(archived), "0123456789") {
		t.Errorf("archive content = %q", archived)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "abcdefghij\n" {
		t.Errorf("current content = %q", current)
	}
}

func TestRotateDropsOldestArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.log")
	for i := 1; i <= maxArchives; i++ {
		if err := os.WriteFile(archiveName(path, i), []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(path, []byte("now"), 0o644); err != nil {
		t.Fatal(err)
	}

	rotate(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("base log should have moved, stat err = %v", err)
	}
	got, _ := os.ReadFile(archiveName(path, 1))
	if string(got) != "now" {
		t.Errorf(".1 = %q, want now", got)
	}
	got, _ = os.ReadFile(archiveName(path, maxArchives))
	if string(got) != "2" {
		t.Errorf(".%d = %q, want 2", maxArchives, got)
	}
}
