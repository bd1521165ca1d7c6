package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subscription_backend/internal/api"
	"subscription_backend/internal/feature/auth/domain/entity"
	"subscription_backend/internal/feature/auth/usecase"
)

const (
	// ContextUser is the gin context key holding the authenticated *entity.User.
	ContextUser = "currentUser"
	// ContextUserID is the gin context key holding the authenticated user's ID.
	ContextUserID = "userID"
)

// Verifier validates bearer tokens and extracts the user ID.
type Verifier interface {
	Verify(token string) (string, error)
}

// UserLoader resolves the authenticated user for the request context.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthRequired はベアラートークンを検証し、該当ユーザーをコンテキストに
// 添付するGinミドルウェアを返します。
//   - トークン欠落・期限切れ・ユーザー未検出は401
//   - 構造不正なトークンは403
func AuthRequired(verifier Verifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("access token not provided"))
			return
		}

		userID, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("token has expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, api.Fail("invalid token"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("user not found"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.Fail("internal server error"))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAdmin は管理者ロールを要求する純粋な述語ゲートです。
// AuthRequiredの後段で使用します。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Fail("administrator privileges required"))
			return
		}
		c.Next()
	}
}

// RequireVerified はメール確認済みユーザーのみを許可するゲートです。
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Fail("email verification required"))
			return
		}
		c.Next()
	}
}
