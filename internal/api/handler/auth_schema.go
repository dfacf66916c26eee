package handler

// --- Auth request / response types ---

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// accountView is the public projection of an account. It never carries the
// password digest.
type accountView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signupResponse struct {
	Message string      `json:"message"`
	User    accountView `json:"user"`
}

type loginResponse struct {
	Message string      `json:"message"`
	User    accountView `json:"user"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *accountView `json:"user,omitempty"`
}

type forgotPasswordResponse struct {
	Message string `json:"message"`
	DevLink string `json:"devLink,omitempty"`
}
