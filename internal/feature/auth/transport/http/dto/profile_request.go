package dto

// UpdateProfileReq represents the request body for PUT /auth/update-profile.
type UpdateProfileReq struct {
	FullName string `json:"fullName"`
}

// ResetPasswordReq represents the request body for PUT /auth/reset-password.
type ResetPasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
