package email

import (
	"context"

	"github.com/socialsimple/backend/internal/logger"
	"go.uber.org/zap"
)

// Notifier delivers account tokens to users.
type Notifier interface {
	SendPasswordReset(ctx context.Context, toEmail, token string) error
	SendVerification(ctx context.Context, toEmail, token string) error
}

// LogNotifier writes tokens to the application log instead of sending mail.
// Intended for local development.
type LogNotifier struct{}

func (LogNotifier) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	logger.Log.Info("Password reset requested",
		zap.String("email", toEmail),
		zap.String("reset_token", token),
	)
	return nil
}

func (LogNotifier) SendVerification(ctx context.Context, toEmail, token string) error {
	logger.Log.Info("Verification requested",
		zap.String("email", toEmail),
		zap.String("verification_token", token),
	)
	return nil
}

var (
	_ Notifier = LogNotifier{}
	_ Notifier = (*SESNotifier)(nil)
)
