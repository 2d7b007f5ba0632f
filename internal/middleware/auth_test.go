package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chat_platform/internal/domain"
	"chat_platform/internal/service"
	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	user *domain.User
}

func (f *fakeAuthService) Register(context.Context, string, string, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthService) Login(context.Context, string, string) (*service.LoginResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthService) RefreshToken(context.Context, string) (*service.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthService) ValidateToken(_ context.Context, token string) (*domain.User, error) {
	if f.user == nil || token != "valid-token" {
		return nil, errors.New("invalid token")
	}
	return f.user, nil
}

func (f *fakeAuthService) Logout(context.Context, string) error {
	return nil
}

func authRouter(user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(&fakeAuthService{user: user}, logger.NewNop())
	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		username, _ := c.Get("username")
		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"username": username,
		})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice", IsActive: true}
	router := authRouter(user)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := authRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router := authRouter(nil)

	for _, header := range []string{"valid-token", "Basic valid-token", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := authRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
