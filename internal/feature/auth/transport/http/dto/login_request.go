package dto

// LoginReq represents the request body for POST /auth/login.
type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
