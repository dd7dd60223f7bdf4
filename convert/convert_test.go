package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestNormalizeSlideImages_Numbered(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "deck-1.png")
	touch(t, dir, "deck-2.png")
	touch(t, dir, "deck-10.png")

	normalizeSlideImages(dir)

	for _, want := range []string{"slide-01.png", "slide-02.png", "slide-10.png"} {
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Errorf("expected %s after normalization: %v", want, err)
		}
	}
}

func TestNormalizeSlideImages_LastNumberWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2024-report-3.png")

	normalizeSlideImages(dir)

	if _, err := os.Stat(filepath.Join(dir, "slide-03.png")); err != nil {
		t.Fatalf("expected slide-03.png: %v", err)
	}
}

func TestNormalizeSlideImages_LeftoversFillGaps(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "slide-01.png")
	touch(t, dir, "untitled.png")

	normalizeSlideImages(dir)

	got := names(t, dir)
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "slide-02.png")); err != nil {
		t.Errorf("unnumbered file should take the next free slot: %v", err)
	}
}

func TestNormalizeSlideImages_AlreadyNormalized(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 3; i++ {
		touch(t, dir, fmt.Sprintf("slide-%02d.png", i))
	}

	normalizeSlideImages(dir)

	got := names(t, dir)
	if len(got) != 3 {
		t.Fatalf("normalization should be a no-op, got %v", got)
	}
}

func TestSlideImage(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "slide-01.png")
	touch(t, dir, "slide-2.png")

	if got := SlideImage(dir, 0); filepath.Base(got) != "slide-01.png" {
		t.Errorf("slide 0: got %q", got)
	}
	if got := SlideImage(dir, 1); filepath.Base(got) != "slide-2.png" {
		t.Errorf("slide 1: got %q", got)
	}
	if got := SlideImage(dir, 5); got != "" {
		t.Errorf("missing slide: got %q, want empty", got)
	}
}

func TestExport_NoConverter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	e := New(Config{})
	err := e.Export(context.Background(), "deck.pptx", t.TempDir(), 0)
	if err != ErrNoConverter {
		t.Fatalf("expected ErrNoConverter, got %v", err)
	}
}
