package adapters

import (
	"context"
	"log/slog"

	"subscription_backend/internal/feature/auth/usecase"
)

// logCodeSender はリセットコードをログに出力するCodeSender実装です。
// メール配信は外部コラボレーターであり、このサービスはコードを
// 帯域外チャネルへ引き渡すだけで配信自体は行いません。
type logCodeSender struct{}

var _ usecase.CodeSender = (*logCodeSender)(nil)

// NewLogCodeSender creates a sender that logs issued codes instead of
// delivering them.
func NewLogCodeSender() *logCodeSender {
	return &logCodeSender{}
}

// Send logs the issued code.
func (s *logCodeSender) Send(_ context.Context, email, code string) error {
	slog.Info("password reset code issued", "email", email, "code", code)
	return nil
}
