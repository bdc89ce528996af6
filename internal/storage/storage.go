package storage

import (
	"github.com/stepup/stepup-backend/config"
	"github.com/stepup/stepup-backend/pkg/logger"
)

// New returns the image store selected by cfg.Driver.
func New(cfg *config.StorageConfig) ImageStore {
	switch cfg.Driver {
	case "s3":
		logger.Info("Using S3 image storage", map[string]interface{}{
			"bucket": cfg.Bucket,
			"region": cfg.Region,
		})
		return NewS3Storage(cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.BaseURL, cfg.MaxImageBytes)
	default:
		logger.Info("Using local image storage", map[string]interface{}{
			"dir": cfg.UploadDir,
		})
		return NewLocalStorage(cfg.UploadDir, cfg.PublicPrefix, cfg.MaxImageBytes)
	}
}
