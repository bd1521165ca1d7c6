// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/auth/domain/entity"
	"subscription_backend/internal/feature/auth/transport/http/dto"
	"subscription_backend/internal/feature/auth/usecase"
	jwtmw "subscription_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、成功時にトークンとユーザーを返します。
	Login(ctx context.Context, email, password string, remember bool) (*usecase.LoginResult, error)
	// Register は新規ユーザーを登録します。
	Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error)
	// ForgotPassword はリセットコードを発行します。
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword はコードを検証してパスワードを更新します。
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	// ResendCode はリセットコードを再発行します。
	ResendCode(ctx context.Context, email string) error
	// ChangePassword は認証済みユーザーのパスワードを変更します。
	ChangePassword(ctx context.Context, user *entity.User, currentPassword, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login はログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（未登録メールとパスワード不一致は同一メッセージ）
// - 成功時はトークン・ユーザー・有効期間付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("email and password are required"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Fail("invalid email or password"))
			return
		}
		slog.Error("login error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK("login successful", gin.H{
		"token":     res.Token,
		"user":      res.User,
		"expiresIn": res.ExpiresIn,
	}))
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時はサニタイズ済みユーザー付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("email and password are required"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			slog.Warn("register failed: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.Fail("a user with this email already exists"))
		case errors.Is(err, usecase.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		default:
			slog.Error("register error", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}

	slog.Info("user registered", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.OK("registration successful", gin.H{"user": user}))
}

// ForgotPassword はパスワード復旧コードの発行を処理します。
// メールアドレスの登録有無にかかわらず同一の成功レスポンスを返します。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("email is required"))
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		slog.Error("forgot password error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK("if the email is registered, a reset code will be sent", nil))
}

// ResendCode はリセットコードの再発行を処理します。
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req dto.ResendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("email is required"))
		return
	}

	if err := h.auth.ResendCode(c.Request.Context(), req.Email); err != nil {
		slog.Error("resend code error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK("if the email is registered, a reset code will be sent", nil))
}

// ResetPassword はリセットコードによるパスワード更新を処理します。
// - コード不正・期限切れは400
// - ユーザー未検出は404
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("email, code and new password are required"))
		return
	}

	err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCodeInvalid):
			slog.Warn("reset password failed: bad code", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.Fail("invalid or expired code"))
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.Fail("user not found"))
		case errors.Is(err, usecase.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		default:
			slog.Error("reset password error", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}

	slog.Info("password reset successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK("password changed successfully", nil))
}

// ChangePassword は認証済みユーザーのパスワード変更を処理します。
// - 現在のパスワード不一致は401
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := jwtmw.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, api.Fail("access token not provided"))
		return
	}

	var req dto.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("current and new password are required"))
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWrongPassword):
			slog.Warn("change password failed: wrong current password", "email", user.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Fail("current password is incorrect"))
		case errors.Is(err, usecase.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		default:
			slog.Error("change password error", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.Fail("internal server error"))
		}
		return
	}

	slog.Info("password changed", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK("password changed successfully", nil))
}

// Profile は認証済みユーザー自身のサニタイズ済みプロフィールを返します。
func (h *AuthHandler) Profile(c *gin.Context) {
	user := jwtmw.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, api.Fail("access token not provided"))
		return
	}
	c.JSON(http.StatusOK, api.OK("", gin.H{"user": user}))
}
