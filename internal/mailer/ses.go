package mailer

import (
	"context"
	"fmt"

	"CapybaraPetService/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// sesAPI часть клиента SES, которой пользуется отправитель
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender отправляет письма через Amazon SES
type SESSender struct {
	client  sesAPI
	source  string
	subject string
}

// NewSESSender загружает учетные данные AWS из окружения и создает клиента SES
func NewSESSender(ctx context.Context, cfg config.MailConfig) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	source := cfg.SES.Source
	if source == "" {
		source = cfg.From
	}
	return newSESSender(ses.NewFromConfig(awsCfg), source, cfg.Subject), nil
}

func newSESSender(client sesAPI, source, subject string) *SESSender {
	return &SESSender{client: client, source: source, subject: subject}
}

// SendResetCode отправляет письмо с кодом через Amazon SES
func (s *SESSender) SendResetCode(ctx context.Context, email, code string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(s.subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(ResetCodeBody(code))},
			},
		},
		Source: aws.String(s.source),
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

// Close ничего не освобождает: клиент SES не держит соединений
func (s *SESSender) Close() error { return nil }
