package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"subscription_backend/internal/feature/auth/domain/entity"
	pubentity "subscription_backend/internal/feature/publications/domain/entity"
	recipiententity "subscription_backend/internal/feature/recipients/domain/entity"
	subentity "subscription_backend/internal/feature/subscriptions/domain/entity"
	"subscription_backend/internal/platform/config"
)

// Open はPostgreSQLへのGORM接続を確立します。起動直後のDBが未準備の場合に
// 備え、最大60秒までリトライします。
func Open(cfg config.DB) *gorm.DB {
	var dsn string
	if cfg.InstanceConnectionName != "" {
		// Cloud SQL unixソケット経由
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s",
			cfg.InstanceConnectionName, cfg.User, cfg.Password, cfg.Name)
	} else {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	}

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(
			&entity.User{},
			&entity.ResetCode{},
			&pubentity.Publication{},
			&recipiententity.Recipient{},
			&subentity.Subscription{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
