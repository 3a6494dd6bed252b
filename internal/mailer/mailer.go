package mailer

import (
	"context"
	"fmt"

	"CapybaraPetService/config"

	"go.uber.org/zap"
)

// Sender доставляет код восстановления пароля
type Sender interface {
	SendResetCode(ctx context.Context, email, code string) error
	Close() error
}

// ResetCodeBody текст письма с кодом
func ResetCodeBody(code string) string {
	return fmt.Sprintf("Your verification code: %s", code)
}

// New создает отправителя для транспорта из настроек
func New(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Transport {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "ses":
		return NewSESSender(ctx, cfg)
	case "kafka":
		return NewKafkaSender(cfg), nil
	case "log", "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// LogSender пишет код в лог вместо отправки; для локальной разработки
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender создает LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendResetCode пишет код в лог вместо отправки
func (s *LogSender) SendResetCode(ctx context.Context, email, code string) error {
	s.logger.Info("Код восстановления пароля", zap.String("email", email), zap.String("code", code))
	return nil
}

// Close ничего не освобождает
func (s *LogSender) Close() error { return nil }
