package di

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wth_backend/internal/config"
	authadapters "wth_backend/internal/feature/auth/adapters"
	authhandler "wth_backend/internal/feature/auth/transport/handler"
	"wth_backend/internal/feature/auth/usecase"
	jwtmw "wth_backend/internal/platform/jwt"
	"wth_backend/internal/platform/password"
)

// NewAuthHandler wires the credential store, token service and media store into the auth handler.
func NewAuthHandler(cfg *config.Config, db *gorm.DB, tokens *jwtmw.TokenService, media usecase.MediaStore, logger *zap.Logger) *authhandler.AuthHandler {
	store := authadapters.NewUserGorm(db, password.NewHasher(cfg.BcryptCost))
	uc := usecase.NewAuthUsecase(store, tokens, media, cfg.Media.MaxAvatarSize)
	return authhandler.NewAuthHandler(uc, logger, cfg.Media.MaxAvatarSize)
}
