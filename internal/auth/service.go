package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	users "github.com/owaisraza72/Full-Stack-E-Commerce/internal/users/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Gender   string
	Age      int
	About    string
	Role     domain.Role
}

type Service struct {
	users  users.UserRepository
	tokens *TokenManager
	log    *slog.Logger
}

func NewService(repo users.UserRepository, tokens *TokenManager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{users: repo, tokens: tokens, log: log.With("component", "auth_service")}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	if err := ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Gender:       req.Gender,
		Age:          req.Age,
		About:        req.About,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login returns the user and a fresh session token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	return u, err
}

func (s *Service) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}
