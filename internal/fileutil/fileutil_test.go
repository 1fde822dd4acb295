package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "out.srt")

	if err := WriteFileAtomic(dst, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected mode 0644, got %o", info.Mode().Perm())
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.srt")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(dst, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "clip.srt")

	got, err := UniquePath(base)
	if err != nil || got != base {
		t.Fatalf("expected free path unchanged, got %q (%v)", got, err)
	}
	if err := os.WriteFile(base, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = UniquePath(base)
	if err != nil || got != filepath.Join(dir, "clip (1).srt") {
		t.Fatalf("unexpected first variant %q (%v)", got, err)
	}
	if err := os.WriteFile(got, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = UniquePath(base)
	if err != nil || got != filepath.Join(dir, "clip (2).srt") {
		t.Fatalf("unexpected second variant %q (%v)", got, err)
	}
}
