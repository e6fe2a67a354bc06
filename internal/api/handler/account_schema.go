package handler

import (
	"time"

	"github.com/church-connect/admin-api/internal/core/domain"
)

type createAccountRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=Admin Reception"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type accountResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toAccountResponse(s *domain.AccountSummary) accountResponse {
	return accountResponse{
		ID:        s.ID,
		Email:     s.Email,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt,
		LastLogin: s.LastLogin,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
