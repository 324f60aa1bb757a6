package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is the single configured admin identity. It is built from
// configuration at startup and never stored.
type AdminUser struct {
	Email        string `bson:"email" json:"email" binding:"required,email"`
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"`
}

// NewAdminUser hashes password unless passwordHash is already given.
func NewAdminUser(email, password, passwordHash string) (AdminUser, error) {
	if passwordHash == "" {
		if password == "" {
			return AdminUser{}, errors.New("admin password is empty")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return AdminUser{}, err
		}
		passwordHash = string(hashed)
	}
	return AdminUser{
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         "admin",
	}, nil
}

// Matches compares email case-insensitively and password exactly.
func (u AdminUser) Matches(email, password string) bool {
	if !strings.EqualFold(email, u.Email) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
