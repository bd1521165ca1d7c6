// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"subscription_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// codeTTL はリセットコードの有効期間です。
	codeTTL = 15 * time.Minute
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdatePassword replaces the stored password digest for the user.
	UpdatePassword(ctx context.Context, id, digest string) error

	// UpdateLastLogin records the time of a successful login.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// ResetCodeRepository はリセットコードの永続化層を抽象化します。
type ResetCodeRepository interface {
	// Create persists a new reset code.
	Create(ctx context.Context, code *entity.ResetCode) error

	// FindValid retrieves the unused, unexpired code matching (email, code).
	// It returns ErrCodeInvalid when no such row exists.
	FindValid(ctx context.Context, email, code string) (*entity.ResetCode, error)

	// Consume marks the code used. The update is conditional on the code
	// still being unused, so concurrent resets cannot both succeed; the
	// loser receives ErrCodeInvalid.
	Consume(ctx context.Context, id string) error

	// InvalidateAll marks every unused code for the email as used.
	InvalidateAll(ctx context.Context, email string) error
}

// PasswordHasher abstracts the one-way password hashing primitive.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches digest. Malformed digests are a
	// mismatch, never an error.
	Verify(plain, digest string) bool
}

// TokenIssuer はセッショントークン発行のインターフェースを定義します。
type TokenIssuer interface {
	// Issue は指定ユーザーの署名済みトークンと有効期間を返します。
	Issue(userID string, remember bool) (string, time.Duration, error)
}

// CodeSender dispatches a reset code to the user over an out-of-band
// channel. Delivery is an external collaborator; the production binding
// only logs the code.
type CodeSender interface {
	Send(ctx context.Context, email, code string) error
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *entity.User
	// ExpiresIn is the token's advertised lifetime in seconds.
	ExpiresIn int64
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	codes  ResetCodeRepository
	hasher PasswordHasher
	tokens TokenIssuer
	sender CodeSender
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, codes ResetCodeRepository,
	hasher PasswordHasher, tokens TokenIssuer, sender CodeSender) *authUsecase {
	return &authUsecase{
		users:  users,
		codes:  codes,
		hasher: hasher,
		tokens: tokens,
		sender: sender,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// dummyDigest はユーザー未検出時のタイミング攻撃緩和用ダミーハッシュです。
// 検証が常に一定のコストを払うことを保証します。
const dummyDigest = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Login はユーザーを認証し、成功時にトークンとサニタイズ済みユーザーを返します。
// ユーザー未検出とパスワード不一致は同一のエラーを返します（列挙攻撃対策）。
func (u *authUsecase) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// タイミング攻撃防止のため、ユーザーが存在しない場合も常に検証を実行
	digest := dummyDigest
	if err == nil {
		digest = user.Password
	}
	ok := u.hasher.Verify(password, digest)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := u.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	token, ttl, err := u.tokens.Issue(user.ID, remember)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		User:      user,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	digest, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:     email,
		Password:  digest,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword はリセットコードを発行します。ユーザーが存在しない場合も
// 成功として扱います（列挙攻撃対策）。
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	if _, err := u.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// 登録状況を漏らさない
			return nil
		}
		return err
	}
	return u.issueCode(ctx, email)
}

// ResendCode は新しいリセットコードを再発行します。
// ForgotPasswordと同一の存在チェック方針に揃えています。
func (u *authUsecase) ResendCode(ctx context.Context, email string) error {
	return u.ForgotPassword(ctx, email)
}

// issueCode invalidates prior codes, creates a fresh one and hands it to the
// delivery channel. At most one unused, unexpired code per email stays valid.
func (u *authUsecase) issueCode(ctx context.Context, email string) error {
	if err := u.codes.InvalidateAll(ctx, email); err != nil {
		return fmt.Errorf("failed to invalidate prior codes: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	rc := &entity.ResetCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := u.codes.Create(ctx, rc); err != nil {
		return err
	}

	if err := u.sender.Send(ctx, email, code); err != nil {
		return fmt.Errorf("failed to dispatch reset code: %w", err)
	}
	return nil
}

// generateCode returns a random 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// ResetPassword はリセットコードを検証してパスワードを更新します。
// コードの消費は条件付き更新であり、同一コードで成功するリセットは一度だけです。
func (u *authUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	rc, err := u.codes.FindValid(ctx, email, code)
	if err != nil {
		return err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		// 有効なコードがメール所有権を証明済みのため、ここは列挙対策不要
		return err
	}

	// 先にコードを消費する。競合したリセットはここで敗退する。
	if err := u.codes.Consume(ctx, rc.ID); err != nil {
		return err
	}

	digest, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, user.ID, digest)
}

// ChangePassword は認証済みユーザーのパスワードを変更します。
func (u *authUsecase) ChangePassword(ctx context.Context, user *entity.User, currentPassword, newPassword string) error {
	if !u.hasher.Verify(currentPassword, user.Password) {
		return ErrWrongPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	digest, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, user.ID, digest)
}
