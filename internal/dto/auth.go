package dto

// CreateAccountRequest represents the request payload for account registration
type CreateAccountRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// TokenRequest carries a 6-digit confirmation or reset token
type TokenRequest struct {
	Token string `json:"token" validate:"required,numeric,len=6"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest is used by request-code and forgot-password
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest sets a new password after a reset
type UpdatePasswordRequest struct {
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// UserResponse represents the authenticated user
type UserResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationErrorResponse is returned with 400 when a payload fails validation
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}
