package services

import (
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/utils"
)

// AuthService issues admin tokens for the single configured identity.
type AuthService struct {
	admin  models.AdminUser
	tokens *utils.TokenManager
}

func NewAuthService(admin models.AdminUser, tokens *utils.TokenManager) *AuthService {
	return &AuthService{admin: admin, tokens: tokens}
}

// Login returns a signed token when email (any case) and password match.
func (s *AuthService) Login(email, password string) (string, error) {
	if !s.admin.Matches(email, password) {
		return "", utils.ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(s.admin.Email, s.admin.Role)
}
