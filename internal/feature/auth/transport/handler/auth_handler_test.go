package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"subscription_backend/internal/feature/auth/domain/entity"
	"subscription_backend/internal/feature/auth/usecase"
	jwtmw "subscription_backend/internal/platform/jwt"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	LoginFunc          func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error)
	RegisterFunc       func(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, email, code, newPassword string) error
	ResendCodeFunc     func(ctx context.Context, email string) error
	ChangePasswordFunc func(ctx context.Context, user *entity.User, currentPassword, newPassword string) error
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error) {
	return m.LoginFunc(ctx, email, password, remember)
}
func (m *mockAuthUsecase) Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
	return m.RegisterFunc(ctx, email, password, firstName, lastName)
}
func (m *mockAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}
func (m *mockAuthUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return m.ResetPasswordFunc(ctx, email, code, newPassword)
}
func (m *mockAuthUsecase) ResendCode(ctx context.Context, email string) error {
	return m.ResendCodeFunc(ctx, email)
}
func (m *mockAuthUsecase) ChangePassword(ctx context.Context, user *entity.User, currentPassword, newPassword string) error {
	return m.ChangePasswordFunc(ctx, user, currentPassword, newPassword)
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       string
		loginFunc  func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "successful login",
			body: `{"email":"alice@x.com","password":"secret-password"}`,
			loginFunc: func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error) {
				return &usecase.LoginResult{
					Token:     "signed-token",
					User:      &entity.User{ID: "user-1", Email: email},
					ExpiresIn: 604800,
				}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   "signed-token",
		},
		{
			name: "remember me flag reaches the usecase",
			body: `{"email":"alice@x.com","password":"secret-password","rememberMe":true}`,
			loginFunc: func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error) {
				if !remember {
					return nil, errors.New("remember flag lost")
				}
				return &usecase.LoginResult{
					Token:     "signed-token",
					User:      &entity.User{ID: "user-1", Email: email},
					ExpiresIn: 2592000,
				}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   "2592000",
		},
		{
			name: "invalid credentials",
			body: `{"email":"alice@x.com","password":"wrong-password"}`,
			loginFunc: func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error) {
				return nil, usecase.ErrInvalidCredentials
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid email or password",
		},
		{
			name:       "missing password",
			body:       `{"email":"alice@x.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed email",
			body:       `{"email":"not-an-email","password":"secret-password"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "usecase failure",
			body: `{"email":"alice@x.com","password":"secret-password"}`,
			loginFunc: func(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error) {
				return nil, errors.New("db down")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc})
			r := gin.New()
			r.POST("/api/auth/login", h.Login)

			w := postJSON(r, "/api/auth/login", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		body         string
		registerFunc func(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "successful registration",
			body: `{"email":"bob@x.com","password":"long-enough","firstName":"Bob","lastName":"Jones"}`,
			registerFunc: func(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
				return &entity.User{ID: "user-2", Email: email, FirstName: firstName, LastName: lastName}, nil
			},
			wantStatus: http.StatusCreated,
			wantBody:   "bob@x.com",
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@x.com","password":"long-enough"}`,
			registerFunc: func(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			wantStatus: http.StatusConflict,
			wantBody:   "already exists",
		},
		{
			name:       "short password rejected by binding",
			body:       `{"email":"bob@x.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       `{"password":"long-enough"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.registerFunc})
			r := gin.New()
			r.POST("/api/auth/register", h.Register)

			w := postJSON(r, "/api/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("known and unknown emails get the same response", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			ForgotPasswordFunc: func(ctx context.Context, email string) error { return nil },
		})
		r := gin.New()
		r.POST("/api/auth/forgot-password", h.ForgotPassword)

		known := postJSON(r, "/api/auth/forgot-password", `{"email":"alice@x.com"}`)
		unknown := postJSON(r, "/api/auth/forgot-password", `{"email":"nobody@x.com"}`)

		assert.Equal(t, http.StatusOK, known.Code)
		assert.Equal(t, http.StatusOK, unknown.Code)
		assert.Equal(t, known.Body.String(), unknown.Body.String())
	})

	t.Run("missing email", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})
		r := gin.New()
		r.POST("/api/auth/forgot-password", h.ForgotPassword)

		w := postJSON(r, "/api/auth/forgot-password", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal failure", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			ForgotPasswordFunc: func(ctx context.Context, email string) error {
				return errors.New("db down")
			},
		})
		r := gin.New()
		r.POST("/api/auth/forgot-password", h.ForgotPassword)

		w := postJSON(r, "/api/auth/forgot-password", `{"email":"alice@x.com"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       string
		resetFunc  func(ctx context.Context, email, code, newPassword string) error
		wantStatus int
		wantBody   string
	}{
		{
			name: "successful reset",
			body: `{"email":"alice@x.com","code":"123456","newPassword":"new-password"}`,
			resetFunc: func(ctx context.Context, email, code, newPassword string) error {
				return nil
			},
			wantStatus: http.StatusOK,
			wantBody:   "password changed",
		},
		{
			name: "invalid code",
			body: `{"email":"alice@x.com","code":"999999","newPassword":"new-password"}`,
			resetFunc: func(ctx context.Context, email, code, newPassword string) error {
				return usecase.ErrCodeInvalid
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid or expired code",
		},
		{
			name: "user vanished between code issue and reset",
			body: `{"email":"alice@x.com","code":"123456","newPassword":"new-password"}`,
			resetFunc: func(ctx context.Context, email, code, newPassword string) error {
				return usecase.ErrUserNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-numeric code rejected by binding",
			body:       `{"email":"alice@x.com","code":"abcdef","newPassword":"new-password"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "code of wrong length rejected by binding",
			body:       `{"email":"alice@x.com","code":"12345","newPassword":"new-password"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{ResetPasswordFunc: tt.resetFunc})
			r := gin.New()
			r.POST("/api/auth/reset-password", h.ResetPassword)

			w := postJSON(r, "/api/auth/reset-password", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	currentUser := &entity.User{ID: "user-1", Email: "alice@x.com"}

	// attachUser mimics the auth middleware placing the user in the context.
	attachUser := func(c *gin.Context) {
		c.Set(jwtmw.ContextUser, currentUser)
		c.Next()
	}

	t.Run("successful change", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			ChangePasswordFunc: func(ctx context.Context, user *entity.User, currentPassword, newPassword string) error {
				assert.Equal(t, currentUser.ID, user.ID)
				return nil
			},
		})
		r := gin.New()
		r.POST("/api/auth/change-password", attachUser, h.ChangePassword)

		w := postJSON(r, "/api/auth/change-password", `{"currentPassword":"old-password","newPassword":"new-password"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			ChangePasswordFunc: func(ctx context.Context, user *entity.User, currentPassword, newPassword string) error {
				return usecase.ErrWrongPassword
			},
		})
		r := gin.New()
		r.POST("/api/auth/change-password", attachUser, h.ChangePassword)

		w := postJSON(r, "/api/auth/change-password", `{"currentPassword":"bad-password","newPassword":"new-password"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "current password is incorrect")
	})

	t.Run("no authenticated user", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})
		r := gin.New()
		r.POST("/api/auth/change-password", h.ChangePassword)

		w := postJSON(r, "/api/auth/change-password", `{"currentPassword":"old-password","newPassword":"new-password"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the authenticated user", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})
		r := gin.New()
		r.GET("/api/auth/profile", func(c *gin.Context) {
			c.Set(jwtmw.ContextUser, &entity.User{ID: "user-1", Email: "alice@x.com"})
		}, h.Profile)

		req, _ := http.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice@x.com")
	})

	t.Run("no authenticated user", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})
		r := gin.New()
		r.GET("/api/auth/profile", h.Profile)

		req, _ := http.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
