package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/utils"
)

var (
	ErrMissingCredentials     = errors.New("store code and password are required")
	ErrIncompleteRegistration = errors.New("all fields are required for registration")
)

type AuthService struct {
	accounts      repository.Authenticator
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(accounts repository.Authenticator, sessionSecret string, ttl time.Duration) *AuthService {
	return &AuthService{accounts: accounts, sessionSecret: sessionSecret, sessionTTL: ttl}
}

func (a *AuthService) SessionTTL() time.Duration { return a.sessionTTL }

// Register creates a store account. The role is always decided by the
// backend; self-registration never yields an admin.
func (a *AuthService) Register(ctx context.Context, in repository.Registration) (string, error) {
	in.StoreCode = strings.TrimSpace(in.StoreCode)
	in.StoreName = strings.TrimSpace(in.StoreName)
	in.Email = strings.TrimSpace(in.Email)
	if in.StoreCode == "" || in.StoreName == "" || in.Email == "" || in.Password == "" {
		return "", ErrIncompleteRegistration
	}
	return a.accounts.Register(ctx, in)
}

func (a *AuthService) Login(ctx context.Context, storeCode, password string) (token string, user *models.User, err error) {
	storeCode = strings.TrimSpace(storeCode)
	if storeCode == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}
	u, err := a.accounts.Login(ctx, storeCode, password)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, &repository.RejectedError{Message: "Invalid store code or password."}
	}
	if u.StoreCode == "" {
		u.StoreCode = storeCode
	}
	tok, err := utils.SignJWT(a.sessionSecret, *u, a.sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
