package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/auth/domain/entity"
	"subscription_backend/internal/feature/auth/usecase"
)

// mockVerifier is a mock implementation of the Verifier interface.
type mockVerifier struct {
	VerifyFunc func(token string) (string, error)
}

func (m *mockVerifier) Verify(token string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return "", ErrTokenInvalid
}

// mockUserLoader is a mock implementation of the UserLoader interface.
type mockUserLoader struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.User, error)
}

func (m *mockUserLoader) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func setupProtectedRoute(verifier Verifier, users UserLoader, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{AuthRequired(verifier, users)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, api.OK("", gin.H{"email": user.Email}))
	})

	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	testUser := &entity.User{
		ID:    "user-1",
		Email: "alice@x.com",
		Role:  entity.RoleUser,
	}

	verifierOK := &mockVerifier{
		VerifyFunc: func(token string) (string, error) { return testUser.ID, nil },
	}
	loaderOK := &mockUserLoader{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			if id == testUser.ID {
				return testUser, nil
			}
			return nil, usecase.ErrUserNotFound
		},
	}

	t.Run("missing token is rejected with 401", func(t *testing.T) {
		r := setupProtectedRoute(verifierOK, loaderOK)
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header is rejected with 401", func(t *testing.T) {
		r := setupProtectedRoute(verifierOK, loaderOK)
		w := doRequest(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected with 401", func(t *testing.T) {
		verifier := &mockVerifier{
			VerifyFunc: func(token string) (string, error) { return "", ErrTokenExpired },
		}
		r := setupProtectedRoute(verifier, loaderOK)
		w := doRequest(r, "Bearer expired-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("invalid token is rejected with 403", func(t *testing.T) {
		verifier := &mockVerifier{
			VerifyFunc: func(token string) (string, error) { return "", ErrTokenInvalid },
		}
		r := setupProtectedRoute(verifier, loaderOK)
		w := doRequest(r, "Bearer broken-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown user is rejected with 401", func(t *testing.T) {
		verifier := &mockVerifier{
			VerifyFunc: func(token string) (string, error) { return "deleted-user", nil },
		}
		r := setupProtectedRoute(verifier, loaderOK)
		w := doRequest(r, "Bearer valid-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store failure is surfaced as 500", func(t *testing.T) {
		loader := &mockUserLoader{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		r := setupProtectedRoute(verifierOK, loader)
		w := doRequest(r, "Bearer valid-token")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("valid token attaches the user", func(t *testing.T) {
		r := setupProtectedRoute(verifierOK, loaderOK)
		w := doRequest(r, "Bearer valid-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice@x.com")
	})
}

func TestRequireAdmin(t *testing.T) {
	loaderFor := func(user *entity.User) *mockUserLoader {
		return &mockUserLoader{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return user, nil
			},
		}
	}
	verifier := &mockVerifier{
		VerifyFunc: func(token string) (string, error) { return "user-1", nil },
	}

	t.Run("admin passes", func(t *testing.T) {
		admin := &entity.User{ID: "user-1", Email: "root@x.com", Role: entity.RoleAdmin}
		r := setupProtectedRoute(verifier, loaderFor(admin), RequireAdmin())
		w := doRequest(r, "Bearer token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user is rejected with 403", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "alice@x.com", Role: entity.RoleUser}
		r := setupProtectedRoute(verifier, loaderFor(user), RequireAdmin())
		w := doRequest(r, "Bearer token")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "administrator")
	})
}

func TestRequireVerified(t *testing.T) {
	verifier := &mockVerifier{
		VerifyFunc: func(token string) (string, error) { return "user-1", nil },
	}

	t.Run("verified user passes", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "alice@x.com", Role: entity.RoleUser, IsVerified: true}
		loader := &mockUserLoader{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) { return user, nil },
		}
		r := setupProtectedRoute(verifier, loader, RequireVerified())
		w := doRequest(r, "Bearer token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unverified user is rejected with 403", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "alice@x.com", Role: entity.RoleUser}
		loader := &mockUserLoader{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) { return user, nil },
		}
		r := setupProtectedRoute(verifier, loader, RequireVerified())
		w := doRequest(r, "Bearer token")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "verification")
	})
}
