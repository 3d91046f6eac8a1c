package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func pngOf(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestLocalStoreSavesAndResizes(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/uploads/", 100)

	url, err := store.SaveImage(context.Background(), "dishes", pngOf(t, 400, 200))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "/uploads/dishes/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url %q", url)
	}

	path := filepath.Join(root, "dishes", filepath.Base(url))
	saved, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open saved image: %v", err)
	}
	if saved.Bounds().Dx() != 100 || saved.Bounds().Dy() != 50 {
		t.Fatalf("saved size = %v", saved.Bounds().Size())
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("file should be removed")
	}
}

func TestLocalStoreRejectsNonImage(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", 100)

	_, err := store.SaveImage(context.Background(), "tables", strings.NewReader("not an image"))
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestLocalStoreDeleteIgnoresForeignURL(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", 100)
	if err := store.Delete(context.Background(), "https://cdn.example.com/x.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(context.Background(), "/uploads/../../etc/passwd"); err != nil {
		t.Fatal(err)
	}
}
