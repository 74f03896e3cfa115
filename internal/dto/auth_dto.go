package dto

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries account credentials.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued bearer token and the resolved identity.
type LoginResponse struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Student StudentResponse `json:"student"`
}
