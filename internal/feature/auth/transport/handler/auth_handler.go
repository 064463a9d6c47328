// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wth_backend/internal/feature/auth/domain/entity"
	"wth_backend/internal/feature/auth/transport/http/dto"
	"wth_backend/internal/feature/auth/usecase"
	jwtmw "wth_backend/internal/platform/jwt"
	"wth_backend/internal/platform/metrics"
)

// AvatarField is the multipart form field that carries the avatar file.
const AvatarField = "avatar"

// AuthUsecase defines the auth operations used by the handlers.
// Following Go convention: the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.AuthResult, error)
	GetProfile(ctx context.Context, callerID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, callerID, fullName string) (*entity.Profile, error)
	ResetPassword(ctx context.Context, callerID string, in usecase.ResetPasswordInput) error
	UploadAvatar(ctx context.Context, callerID string, file *usecase.AvatarUpload) (string, error)
}

// AuthHandler handles HTTP requests for auth operations.
type AuthHandler struct {
	auth           AuthUsecase
	logger         *zap.Logger
	maxAvatarBytes int64
}

// NewAuthHandler creates a new AuthHandler.
// maxAvatarBytes caps how much of an uploaded file is read; zero disables the cap.
func NewAuthHandler(auth AuthUsecase, logger *zap.Logger, maxAvatarBytes int64) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger, maxAvatarBytes: maxAvatarBytes}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if !h.bindJSON(c, "signup", &req) {
		return
	}
	res, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, "signup", err, zap.String("email", req.Email))
		return
	}
	h.logger.Info("user signed up", zap.String("user_id", res.User.ID), zap.String("remote_addr", c.ClientIP()))
	metrics.RecordAuth("signup", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.AuthRes{Token: res.Token, User: dto.NewUserSummary(res.User)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !h.bindJSON(c, "login", &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, "login", err, zap.String("email", req.Email))
		return
	}
	h.logger.Info("user logged in", zap.String("user_id", res.User.ID), zap.String("remote_addr", c.ClientIP()))
	metrics.RecordAuth("login", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.AuthRes{Token: res.Token, User: dto.NewUserSummary(res.User)})
}

// GetProfile handles GET /auth/user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	profile, err := h.auth.GetProfile(c.Request.Context(), callerID)
	if err != nil {
		h.fail(c, "get_profile", err, zap.String("user_id", callerID))
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileRes(*profile))
}

// UpdateProfile handles PUT /auth/update-profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileReq
	if !h.bindJSON(c, "update_profile", &req) {
		return
	}
	profile, err := h.auth.UpdateProfile(c.Request.Context(), callerID, req.FullName)
	if err != nil {
		h.fail(c, "update_profile", err, zap.String("user_id", callerID))
		return
	}
	metrics.RecordAuth("update_profile", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.UpdateProfileRes{
		Message: "Profile updated successfully",
		User:    dto.NewUserSummary(*profile),
	})
}

// ResetPassword handles PUT /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordReq
	if !h.bindJSON(c, "reset_password", &req) {
		return
	}
	err := h.auth.ResetPassword(c.Request.Context(), callerID, usecase.ResetPasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.fail(c, "reset_password", err, zap.String("user_id", callerID))
		return
	}
	h.logger.Info("password reset", zap.String("user_id", callerID))
	metrics.RecordAuth("reset_password", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Password reset successfully"})
}

// UploadAvatar handles POST /auth/upload-avatar with a multipart "avatar" field.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(AvatarField)
	if err != nil {
		h.fail(c, "upload_avatar", usecase.ErrNoFileProvided, zap.String("user_id", callerID), zap.NamedError("form_error", err))
		return
	}
	if h.maxAvatarBytes > 0 && fh.Size > h.maxAvatarBytes {
		h.fail(c, "upload_avatar", usecase.ErrFileTooLarge, zap.String("user_id", callerID), zap.Int64("size", fh.Size))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload_avatar", err, zap.String("user_id", callerID))
		return
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxAvatarBytes > 0 {
		r = io.LimitReader(f, h.maxAvatarBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		h.fail(c, "upload_avatar", err, zap.String("user_id", callerID))
		return
	}

	ref, err := h.auth.UploadAvatar(c.Request.Context(), callerID, &usecase.AvatarUpload{
		Filename: fh.Filename,
		Data:     data,
	})
	if err != nil {
		h.fail(c, "upload_avatar", err, zap.String("user_id", callerID))
		return
	}
	h.logger.Info("avatar uploaded", zap.String("user_id", callerID), zap.String("profile_image", ref))
	metrics.RecordAuth("upload_avatar", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.AvatarRes{Message: "Avatar uploaded successfully", ProfileImage: ref})
}

// caller returns the authenticated user id placed in the context by the auth middleware.
func (h *AuthHandler) caller(c *gin.Context) (string, bool) {
	id, ok := jwtmw.CallerID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.MessageRes{Message: "No token, authorization denied"})
		return "", false
	}
	return id, true
}

func (h *AuthHandler) bindJSON(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("malformed request body", zap.String("op", op), zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		metrics.RecordAuth(op, metrics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: "Invalid request body"})
		return false
	}
	return true
}

// fail maps a usecase error to its HTTP response.
// Invalid credentials share one message whether the email or the password was wrong.
func (h *AuthHandler) fail(c *gin.Context, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Error(err), zap.String("remote_addr", c.ClientIP()))

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		h.logger.Warn("validation failed", fields...)
		metrics.RecordAuth(op, metrics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorRes(verr))
		return
	}

	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
		metrics.RecordAuth(op, metrics.OutcomeError)
	} else {
		h.logger.Warn("request rejected", fields...)
		metrics.RecordAuth(op, metrics.OutcomeRejected)
	}
	c.JSON(status, dto.MessageRes{Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid Credentials"
	case errors.Is(err, usecase.ErrInvalidCurrentPassword):
		return http.StatusBadRequest, "Incorrect current password"
	case errors.Is(err, usecase.ErrNoFileProvided):
		return http.StatusBadRequest, "No file uploaded"
	case errors.Is(err, usecase.ErrFileTooLarge):
		return http.StatusBadRequest, "File too large"
	case errors.Is(err, usecase.ErrUnsupportedMedia):
		return http.StatusBadRequest, "Only JPEG, PNG and WebP images are allowed"
	case errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, usecase.ErrMediaUnavailable):
		return http.StatusBadGateway, "Avatar upload failed"
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}
