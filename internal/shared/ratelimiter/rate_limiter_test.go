package ratelimiter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	// 3回目は上限超過
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// 別キーは独立してカウントされる
	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	l := NewMemoryLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt sets the window and is allowed", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "auth", 3, time.Minute)

		mock.ExpectIncr("auth:1.2.3.4").SetVal(1)
		mock.ExpectExpire("auth:1.2.3.4", time.Minute).SetVal(true)

		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("attempt beyond the limit is denied", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "auth", 3, time.Minute)

		mock.ExpectIncr("auth:1.2.3.4").SetVal(4)

		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error is returned", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "auth", 3, time.Minute)

		mock.ExpectIncr("auth:1.2.3.4").SetErr(errors.New("connection refused"))

		_, err := l.Allow(ctx, "1.2.3.4")
		assert.Error(t, err)
	})
}

// stubLimiter はミドルウェアテスト用の固定応答リミッターです。
type stubLimiter struct {
	ok  bool
	err error
}

func (s *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return s.ok, s.err
}

func setupLimitedRoute(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", Middleware(l), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	t.Run("allowed request passes through", func(t *testing.T) {
		r := setupLimitedRoute(&stubLimiter{ok: true})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied request gets 429", func(t *testing.T) {
		r := setupLimitedRoute(&stubLimiter{ok: false})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "too many requests")
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		r := setupLimitedRoute(&stubLimiter{err: errors.New("redis down")})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
