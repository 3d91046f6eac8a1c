package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrInvalidImage is returned when the upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("file is not a supported image")

// ImageStore keeps uploaded pictures and hands back a public URL.
type ImageStore interface {
	SaveImage(ctx context.Context, folder string, src io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStore writes normalised JPEGs below root and serves them under baseURL.
type LocalStore struct {
	root     string
	baseURL  string
	maxWidth int
}

func NewLocalStore(root, baseURL string, maxWidth int) *LocalStore {
	return &LocalStore{
		root:     root,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxWidth: maxWidth,
	}
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) SaveImage(ctx context.Context, folder string, src io.Reader) (string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if s.maxWidth > 0 && img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	return s.baseURL + "/" + folder + "/" + name, nil
}

// Delete removes a file previously returned by SaveImage. URLs that do not
// belong to this store are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
