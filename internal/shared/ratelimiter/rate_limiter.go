// Package ratelimiter は認証系エンドポイントへの試行回数を固定ウィンドウで制限します。
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"subscription_backend/internal/api"
)

// Limiter は、キー（通常はクライアントIP）ごとのリクエストを許可するか判定します。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter はRedisのINCR+EXPIREによる固定ウィンドウリミッターです。
// 複数プロセス間でカウントを共有できます。
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter は新しいRedisLimiterのインスタンスを生成します。
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow はウィンドウ内の試行回数を加算し、上限以内であればtrueを返します。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	// 最初の加算時のみウィンドウを設定
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(l.limit), nil
}

// MemoryLimiter はプロセス内の固定ウィンドウリミッターです。
// Redisが利用できない場合のフォールバックとして使用します。
type MemoryLimiter struct {
	limit  int
	window time.Duration

	mu     sync.Mutex
	counts map[string]*windowCount
}

type windowCount struct {
	count     int
	lastReset time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter は新しいMemoryLimiterのインスタンスを生成します。
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

// Allow はウィンドウ内の試行回数を加算し、上限以内であればtrueを返します。
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	wc, ok := l.counts[key]
	if !ok || now.Sub(wc.lastReset) >= l.window {
		// ウィンドウを過ぎたらカウントリセット
		wc = &windowCount{lastReset: now}
		l.counts[key] = wc
	}

	wc.count++
	return wc.count <= l.limit, nil
}

// Middleware はクライアントIPごとの固定ウィンドウ制限を適用するGin
// ミドルウェアを返します。リミッターが失敗した場合は通過させます
// （認証を止めるよりは制限なしの方がまし）。
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Fail("too many requests, try again later"))
			return
		}
		c.Next()
	}
}
