package http

import (
	"context"
	"net/http"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/auth"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	TokenTTL() int
}

type AuthHandler struct {
	auth         AuthService
	cookieSecure bool
	timeout      time.Duration
}

func NewAuthHandler(svc AuthService, cookieSecure bool, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		cookieSecure: cookieSecure,
		timeout:      timeout,
	}
}

type SignupRequestDTO struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Age      int    `json:"age" validate:"required,gte=18,lte=120"`
	About    string `json:"about" validate:"max=500"`
	Role     string `json:"role" validate:"omitempty,oneof=user seller"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignupRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.auth.Signup(ctx, auth.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
		Age:      req.Age,
		About:    req.About,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.auth.TokenTTL()))
	respondJSON(w, http.StatusOK, user)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
