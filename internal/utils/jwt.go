package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"special-requests/internal/models"
)

type Claims struct {
	StoreCode string `json:"uid"`
	StoreName string `json:"store"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) User() models.User {
	return models.User{StoreCode: c.StoreCode, StoreName: c.StoreName, Email: c.Email, Role: c.Role}
}

func SignJWT(secret string, u models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StoreCode: u.StoreCode, StoreName: u.StoreName, Email: u.Email, Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.StoreCode,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

func ParseJWT(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
