// Package router はアプリケーションのルーティングテーブルを構築します。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "subscription_backend/internal/feature/auth/transport/handler"
	pubhandler "subscription_backend/internal/feature/publications/transport/handler"
	recipienthandler "subscription_backend/internal/feature/recipients/transport/handler"
	subhandler "subscription_backend/internal/feature/subscriptions/transport/handler"
	platformhandler "subscription_backend/internal/platform/http/handler"
	jwtmw "subscription_backend/internal/platform/jwt"
	"subscription_backend/internal/shared/ratelimiter"
)

// Deps bundles the handlers and middleware dependencies for the router.
type Deps struct {
	Auth          *authhandler.AuthHandler
	Publications  *pubhandler.PublicationHandler
	Recipients    *recipienthandler.RecipientHandler
	Subscriptions *subhandler.SubscriptionHandler
	Health        *platformhandler.HealthHandler

	Verifier    jwtmw.Verifier
	Users       jwtmw.UserLoader
	AuthLimiter ratelimiter.Limiter
}

// New はルータを生成します。
func New(d Deps) *gin.Engine {
	r := gin.Default()
	// CORS のデフォルト設定を有効
	r.Use(cors.Default())

	// 導通確認用（認証不要）
	r.GET("/health", d.Health.Health)

	// 認証不要のルート。資格情報系はレート制限付き。
	public := r.Group("/api/auth")
	public.Use(ratelimiter.Middleware(d.AuthLimiter))
	{
		public.POST("/login", d.Auth.Login)
		public.POST("/register", d.Auth.Register)
		public.POST("/forgot-password", d.Auth.ForgotPassword)
		public.POST("/reset-password", d.Auth.ResetPassword)
		public.POST("/resend-code", d.Auth.ResendCode)
	}

	// 認証必須のルート
	// リクエストヘッダーにベアラートークンが必要になる
	protected := r.Group("/api")
	protected.Use(jwtmw.AuthRequired(d.Verifier, d.Users))
	{
		protected.GET("/auth/profile", d.Auth.Profile)
		protected.POST("/auth/change-password", d.Auth.ChangePassword)

		pubs := protected.Group("/publications")
		{
			pubs.GET("", d.Publications.List)
			pubs.POST("", d.Publications.Create)
			pubs.GET("/:id", d.Publications.Get)
			pubs.PUT("/:id", d.Publications.Update)
			pubs.DELETE("/:id", d.Publications.Delete)
		}

		recipients := protected.Group("/recipients")
		{
			recipients.GET("", d.Recipients.List)
			recipients.POST("", d.Recipients.Create)
			recipients.GET("/:id", d.Recipients.Get)
			recipients.PUT("/:id", d.Recipients.Update)
			recipients.DELETE("/:id", d.Recipients.Delete)
		}

		subs := protected.Group("/subscriptions")
		{
			subs.GET("", d.Subscriptions.List)
			subs.POST("", d.Subscriptions.Create)
			subs.GET("/:id", d.Subscriptions.Get)
			subs.PUT("/:id", d.Subscriptions.Update)
			subs.DELETE("/:id", d.Subscriptions.Delete)
		}
	}

	return r
}
