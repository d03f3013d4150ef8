package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/auth"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

type UserAdmin interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AccountCreator registers accounts on behalf of an admin.
type AccountCreator interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*domain.User, error)
}

type AdminHandler struct {
	users    UserAdmin
	accounts AccountCreator
	timeout  time.Duration
}

func NewAdminHandler(users UserAdmin, accounts AccountCreator, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		users:    users,
		accounts: accounts,
		timeout:  timeout,
	}
}

// CreateUserRequestDTO is a signup performed by an admin, who may also
// grant the admin role.
type CreateUserRequestDTO struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Age      int    `json:"age" validate:"required,gte=18,lte=120"`
	About    string `json:"about" validate:"max=500"`
	Role     string `json:"role" validate:"omitempty,oneof=user seller admin"`
}

type UpdateRoleRequestDTO struct {
	Role string `json:"role" validate:"required,oneof=user seller admin"`
}

// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	respondJSON(w, http.StatusOK, users)
}

// POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateUserRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accounts.Signup(ctx, auth.SignupRequest{
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

// PUT /api/v1/admin/users/{user_id}
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	admin, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateRoleRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "user_id")
	if userID == admin.ID && domain.Role(req.Role) != domain.RoleAdmin {
		respondError(w, http.StatusBadRequest, "invalid_request", "admins cannot demote themselves")
		return
	}

	user, err := h.users.UpdateRole(ctx, userID, domain.Role(req.Role))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// DELETE /api/v1/admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	admin, ok := currentUser(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "user_id")
	if userID == admin.ID {
		respondError(w, http.StatusBadRequest, "invalid_request", "admins cannot delete themselves")
		return
	}

	if err := h.users.DeleteUser(ctx, userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
