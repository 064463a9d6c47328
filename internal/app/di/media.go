package di

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wth_backend/internal/config"
	"wth_backend/internal/feature/auth/usecase"
	"wth_backend/internal/platform/media"
)

// NewMediaStore returns the S3 store when a bucket is configured.
// Otherwise avatar uploads are rejected by a disabled store.
func NewMediaStore(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (usecase.MediaStore, error) {
	store, err := media.NewS3Store(ctx, cfg)
	if errors.Is(err, media.ErrNotConfigured) {
		logger.Warn("S3_BUCKET not set, avatar uploads are disabled")
		return media.Disabled{}, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("media store ready", zap.String("bucket", cfg.Bucket))
	return store, nil
}
