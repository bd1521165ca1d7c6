// Package jwtmw はセッショントークンの発行・検証とGin用の認可ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's signature is valid but
	// its expiry has passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned for structurally invalid tokens,
	// bad signatures and unexpected signing methods.
	ErrTokenInvalid = errors.New("invalid token")
)

// Issuer signs and validates bearer session tokens. The signing secret
// and lifetimes are injected at construction and never mutated.
type Issuer struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewIssuer creates an Issuer with the given secret and token lifetimes.
func NewIssuer(secret string, ttl, rememberTTL time.Duration) *Issuer {
	return &Issuer{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}
}

// Issue は指定ユーザーの署名済みトークンを生成し、その有効期間を返します。
// rememberがtrueの場合は延長された有効期間を使用します。
func (i *Issuer) Issue(userID string, remember bool) (string, time.Duration, error) {
	ttl := i.ttl
	if remember {
		ttl = i.rememberTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, ttl, nil
}

// Verify はトークンを検証し、含まれるユーザーIDを返します。
// 期限切れと構造不正は呼び出し側が区別できるよう別々のエラーを返します。
func (i *Issuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// HMAC以外の署名方式は拒否
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
