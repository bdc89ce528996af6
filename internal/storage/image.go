package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidImageType = errors.New("only jpeg, png and webp images are allowed")
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Image is an uploaded file that has not been persisted yet.
type Image struct {
	Name   string
	Reader io.Reader
}

// ImageStore persists validated images and returns their public path.
type ImageStore interface {
	Save(ctx context.Context, folder string, img Image) (string, error)
	Delete(ctx context.Context, path string) error
}

// readImage reads at most maxBytes, checks the extension and the sniffed
// content type, and returns the data with the canonical extension.
func readImage(img Image, maxBytes int64) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(img.Name))
	if !allowedImageExtensions[ext] {
		return nil, "", ErrInvalidImageType
	}

	data, err := io.ReadAll(io.LimitReader(img.Reader, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	for allowed, canonicalExt := range allowedImageTypes {
		if mtype.Is(allowed) {
			return data, canonicalExt, nil
		}
	}
	return nil, "", ErrInvalidImageType
}

func contentTypeFor(ext string) string {
	for ct, e := range allowedImageTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

func newBody(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
