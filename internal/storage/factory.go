package storage

import (
	"context"
	"fmt"

	"yantrashilpa.com/web/internal/config"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
	// LocalDir is set for the local driver so the router can serve uploads.
	LocalDir  string
	URLPrefix string
}

// FromConfig builds the product image store selected by STORAGE_DRIVER.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (FactoryResult, error) {
	switch cfg.Driver {
	case "", "local":
		return FactoryResult{
			Driver:    "local",
			Storage:   NewLocal(cfg.LocalDir, cfg.LocalURLPrefix),
			LocalDir:  cfg.LocalDir,
			URLPrefix: cfg.LocalURLPrefix,
		}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("storage: S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL are required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("storage: unknown STORAGE_DRIVER %q", cfg.Driver)
	}
}
