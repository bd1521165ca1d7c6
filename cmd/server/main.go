package main

import (
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"subscription_backend/internal/app/di"
	"subscription_backend/internal/app/router"
	authadapters "subscription_backend/internal/feature/auth/adapters"
	authhandler "subscription_backend/internal/feature/auth/transport/handler"
	authusecase "subscription_backend/internal/feature/auth/usecase"
	pubadapters "subscription_backend/internal/feature/publications/adapters"
	pubhandler "subscription_backend/internal/feature/publications/transport/handler"
	pubusecase "subscription_backend/internal/feature/publications/usecase"
	recipientadapters "subscription_backend/internal/feature/recipients/adapters"
	recipienthandler "subscription_backend/internal/feature/recipients/transport/handler"
	recipientusecase "subscription_backend/internal/feature/recipients/usecase"
	subadapters "subscription_backend/internal/feature/subscriptions/adapters"
	subhandler "subscription_backend/internal/feature/subscriptions/transport/handler"
	subusecase "subscription_backend/internal/feature/subscriptions/usecase"
	"subscription_backend/internal/platform/config"
	infradb "subscription_backend/internal/platform/db"
	"subscription_backend/internal/platform/hash"
	platformhandler "subscription_backend/internal/platform/http/handler"
	jwtmw "subscription_backend/internal/platform/jwt"
	infraredis "subscription_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg := config.Load()

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Token.Secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	db := infradb.Open(cfg.DB)

	// Redis（レート制限用、任意）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewClient(cfg.Redis); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to in-process rate limiting.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(db)
	codeRepo := authadapters.NewResetCodePostgres(db)
	pubRepo := pubadapters.NewPublicationPostgres(db)
	recipientRepo := recipientadapters.NewRecipientPostgres(db)
	subRepo := subadapters.NewSubscriptionPostgres(db)

	// Platform
	hasher := hash.NewBcrypt(hash.DefaultCost)
	issuer := jwtmw.NewIssuer(cfg.Token.Secret, cfg.Token.TTL, cfg.Token.RememberTTL)
	sender := authadapters.NewLogCodeSender()
	limiter := di.NewAuthLimiter(rdb, cfg.RateLimit)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, codeRepo, hasher, issuer, sender)
	pubUC := pubusecase.NewPublicationUsecase(pubRepo, subRepo)
	recipientUC := recipientusecase.NewRecipientUsecase(recipientRepo, subRepo)
	subUC := subusecase.NewSubscriptionUsecase(subRepo, recipientRepo, pubRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	pubH := pubhandler.NewPublicationHandler(pubUC)
	recipientH := recipienthandler.NewRecipientHandler(recipientUC)
	subH := subhandler.NewSubscriptionHandler(subUC)
	healthH := platformhandler.NewHealthHandler(db)

	// ルータ生成
	r := router.New(router.Deps{
		Auth:          authH,
		Publications:  pubH,
		Recipients:    recipientH,
		Subscriptions: subH,
		Health:        healthH,
		Verifier:      issuer,
		Users:         userRepo,
		AuthLimiter:   limiter,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
