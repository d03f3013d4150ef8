package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/auth"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	usersrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/users/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AuthServiceMock struct {
	user      *domain.User
	token     string
	err       error
	signedUp  *auth.SignupRequest
	authToken string
}

func (m *AuthServiceMock) Signup(_ context.Context, req auth.SignupRequest) (*domain.User, error) {
	m.signedUp = &req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.User{ID: "new-user", Name: req.Name, Email: req.Email, Role: req.Role, PasswordHash: "secret-hash"}, nil
}

func (m *AuthServiceMock) Login(context.Context, string, string) (*domain.User, string, error) {
	return m.user, m.token, m.err
}

func (m *AuthServiceMock) TokenTTL() int { return 3600 }

func (m *AuthServiceMock) Authenticate(_ context.Context, token string) (*domain.User, error) {
	m.authToken = token
	if m.err != nil {
		return nil, m.err
	}
	if token != m.token {
		return nil, auth.ErrInvalidToken
	}
	return m.user, nil
}

const validSignupBody = `{"name":"Grace","email":"grace@example.com","password":"Passw0rd!","gender":"female","age":40}`

func TestSignup_Success(t *testing.T) {
	mock := &AuthServiceMock{}
	handler := NewAuthHandler(mock, false, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Signup(recorder, newJSONRequest("POST", "/auth/signup", validSignupBody))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secret-hash")
	assert.Equal(t, domain.Role(""), mock.signedUp.Role)
}

func TestSignup_Validation(t *testing.T) {
	tests := map[string]string{
		"underage":    `{"name":"Grace","email":"grace@example.com","password":"Passw0rd!","gender":"female","age":17}`,
		"bad gender":  `{"name":"Grace","email":"grace@example.com","password":"Passw0rd!","gender":"x","age":30}`,
		"bad email":   `{"name":"Grace","email":"grace","password":"Passw0rd!","gender":"female","age":30}`,
		"admin role":  `{"name":"Grace","email":"grace@example.com","password":"Passw0rd!","gender":"female","age":30,"role":"admin"}`,
		"short name":  `{"name":"Gr","email":"grace@example.com","password":"Passw0rd!","gender":"female","age":30}`,
		"no password": `{"name":"Grace","email":"grace@example.com","gender":"female","age":30}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			mock := &AuthServiceMock{}
			handler := NewAuthHandler(mock, false, 5*time.Second)
			recorder := httptest.NewRecorder()

			handler.Signup(recorder, newJSONRequest("POST", "/auth/signup", body))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Nil(t, mock.signedUp)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	handler := NewAuthHandler(&AuthServiceMock{err: usersrepo.ErrEmailTaken}, false, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Signup(recorder, newJSONRequest("POST", "/auth/signup", validSignupBody))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "user already exists", decodeError(t, recorder).Error)
}

func TestLogin_SetsCookie(t *testing.T) {
	mock := &AuthServiceMock{user: buyer, token: "jwt-token"}
	handler := NewAuthHandler(mock, true, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, newJSONRequest("POST", "/auth/login", `{"email":"buyer@example.com","password":"Passw0rd!"}`))

	require.Equal(t, http.StatusOK, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "token", c.Name)
	assert.Equal(t, "jwt-token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&AuthServiceMock{err: auth.ErrInvalidCredentials}, false, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, newJSONRequest("POST", "/auth/login", `{"email":"buyer@example.com","password":"nope"}`))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid email or password", decodeError(t, recorder).Error)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	handler := NewAuthHandler(&AuthServiceMock{}, false, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Logout(recorder, httptest.NewRequest("POST", "/auth/logout", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestProfile(t *testing.T) {
	handler := NewAuthHandler(&AuthServiceMock{}, false, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.Profile(recorder, withUser(httptest.NewRequest("GET", "/auth/profile", nil), buyer))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), buyer.Email)

	recorder = httptest.NewRecorder()
	handler.Profile(recorder, httptest.NewRequest("GET", "/auth/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
