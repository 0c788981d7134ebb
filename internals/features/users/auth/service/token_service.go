package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"paudku_backend/internals/configs"
	"paudku_backend/internals/features/users/user/model"
)

// Masa berlaku access token
const TokenTTL = 24 * time.Hour

// GenerateToken membuat JWT HS256 dengan identitas user di claims.
func GenerateToken(user *model.UserModel) (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.UserName,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}
