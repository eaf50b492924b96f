package request

import (
	"slotlink/internal/domain/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) ToCredentials() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}
