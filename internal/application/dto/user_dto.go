package dto

import "time"

// RegisterUserRequest alta de un operador (password en texto, se hashea en use case).
type RegisterUserRequest struct {
	UserName    string `json:"userName" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=5,max=20"`
	Password    string `json:"password" validate:"required,min=8"`
	Age         Number `json:"age"`
	UserType    string `json:"userType" validate:"omitempty,max=50"`
}

// UpdateUserRequest cambios parciales de un usuario; los campos ausentes se conservan.
type UpdateUserRequest struct {
	UserName    *string `json:"userName" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=5,max=20"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	Age         Number  `json:"age"`
	UserType    *string `json:"userType" validate:"omitempty,max=50"`
}

// UpdateUserResponse respuesta de PUT /user/updateUser/:id.
type UpdateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"_id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Age         *int      `json:"age,omitempty"`
	UserType    string    `json:"userType,omitempty"`
	CreatedAt   time.Time `json:"createDate"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse tokens más datos básicos del usuario.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	Age          *int   `json:"age,omitempty"`
	UserType     string `json:"userType,omitempty"`
	EmailID      string `json:"emailId"`
}

// RefreshRequest body de POST /token y POST /logout.
type RefreshRequest struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken,omitempty"` // solo logout: revoca también el access token
}

// TokenPairResponse tokens rotados.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
