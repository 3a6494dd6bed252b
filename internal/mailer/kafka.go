package mailer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"CapybaraPetService/config"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// ResetCodeEvent событие для почтового сервиса, который читает топик и отправляет письмо
type ResetCodeEvent struct {
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requested_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender публикует события восстановления пароля в Kafka
type KafkaSender struct {
	writer  messageWriter
	subject string
	now     func() time.Time
}

// NewKafkaSender создает KafkaSender; SASL/TLS включаются, когда задан пользователь
func NewKafkaSender(cfg config.MailConfig) *KafkaSender {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Kafka.Username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.Kafka.Username,
				Password: cfg.Kafka.Password,
			},
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return newKafkaSender(writer, cfg.Subject)
}

func newKafkaSender(writer messageWriter, subject string) *KafkaSender {
	return &KafkaSender{writer: writer, subject: subject, now: time.Now}
}

// SendResetCode публикует событие с кодом в топик восстановления
func (s *KafkaSender) SendResetCode(ctx context.Context, email, code string) error {
	now := s.now()
	value, err := json.Marshal(ResetCodeEvent{
		Email:       email,
		Code:        code,
		Subject:     s.subject,
		Body:        ResetCodeBody(code),
		RequestedAt: now,
	})
	if err != nil {
		return err
	}

	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(email),
		Value: value,
		Time:  now,
	}); err != nil {
		return fmt.Errorf("publish reset event: %w", err)
	}
	return nil
}

// Close сбрасывает буфер и закрывает соединения с брокерами
// Close закрывает writer Kafka
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
