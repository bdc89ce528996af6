package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stepup/stepup-backend/pkg/logger"
)

// LocalStorage writes images under baseDir and serves them from publicPrefix.
type LocalStorage struct {
	baseDir      string
	publicPrefix string
	maxBytes     int64
}

func NewLocalStorage(baseDir, publicPrefix string, maxBytes int64) *LocalStorage {
	return &LocalStorage{
		baseDir:      baseDir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		maxBytes:     maxBytes,
	}
}

func (s *LocalStorage) Save(ctx context.Context, folder string, img Image) (string, error) {
	data, ext, err := readImage(img, s.maxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create upload directory %s", dir)
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write image")
	}

	publicPath := path.Join(s.publicPrefix, folder, filename)
	logger.Debug("Image stored on local disk", map[string]interface{}{
		"path": publicPath,
		"size": len(data),
	})
	return publicPath, nil
}

// Delete removes a file previously returned by Save. Missing files are ignored.
func (s *LocalStorage) Delete(_ context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, s.publicPrefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid image path %q", publicPath)
	}

	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove image %s", publicPath)
	}
	return nil
}
