package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"special-requests/internal/middleware"
	"special-requests/internal/repository"
	"special-requests/internal/service"
	"special-requests/internal/utils"
)

const (
	msgMissingCredentials = "Store Code and Password are required."
	msgIncompleteRegister = "All fields are required for registration."
	msgAuthUnavailable    = "Authentication service is unavailable. Please try again."
)

type AuthHTTP struct {
	svc    *service.AuthService
	log    zerolog.Logger
	secure bool
}

// NewAuthHTTP builds the auth endpoints. secure marks the session cookie
// HTTPS-only.
func NewAuthHTTP(s *service.AuthService, log zerolog.Logger, secure bool) *AuthHTTP {
	return &AuthHTTP{svc: s, log: log, secure: secure}
}

// POST /api/auth/register
func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			StoreCode string `json:"storeCode"`
			StoreName string `json:"storeName"`
			Password  string `json:"password"`
			Email     string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		msg, err := h.svc.Register(r.Context(), repository.Registration{
			StoreCode: in.StoreCode,
			StoreName: in.StoreName,
			Password:  in.Password,
			Email:     in.Email,
		})
		var rej *repository.RejectedError
		switch {
		case errors.Is(err, service.ErrIncompleteRegistration):
			utils.Error(w, http.StatusBadRequest, msgIncompleteRegister)
			return
		case errors.As(err, &rej):
			utils.Error(w, http.StatusBadRequest, rej.Message)
			return
		case err != nil:
			h.log.Error().Err(err).Msg("register")
			utils.Error(w, http.StatusBadGateway, msgAuthUnavailable)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]string{"message": msg})
	}
}

// POST /api/auth/login
func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			StoreCode string `json:"storeCode"`
			Password  string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.StoreCode, in.Password)
		var rej *repository.RejectedError
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			utils.Error(w, http.StatusBadRequest, msgMissingCredentials)
			return
		case errors.As(err, &rej):
			utils.Error(w, http.StatusUnauthorized, rej.Message)
			return
		case err != nil:
			h.log.Error().Err(err).Msg("login")
			utils.Error(w, http.StatusBadGateway, msgAuthUnavailable)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   h.secure,
			Expires:  time.Now().Add(h.svc.SessionTTL()),
		})
		utils.JSON(w, http.StatusOK, u)
	}
}

// POST /api/auth/logout
func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,              // expire immediately
			Expires:  time.Unix(0, 0), // for older browsers
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/auth/me
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := utils.UserFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
