package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"CapybaraPetService/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
	err      error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestSESSender(t *testing.T) {
	client := &fakeSES{}
	sender := newSESSender(client, "no-reply@capybara.app", "Reset password OTP")

	if err := sender.SendResetCode(context.Background(), "mika@example.com", "123456"); err != nil {
		t.Fatalf("SendResetCode returned error: %v", err)
	}

	in := client.input
	if in == nil {
		t.Fatal("SendEmail was not called")
	}
	if got := in.Destination.ToAddresses; len(got) != 1 || got[0] != "mika@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}
	if aws.ToString(in.Source) != "no-reply@capybara.app" {
		t.Errorf("unexpected source %q", aws.ToString(in.Source))
	}
	if aws.ToString(in.Message.Subject.Data) != "Reset password OTP" {
		t.Errorf("unexpected subject %q", aws.ToString(in.Message.Subject.Data))
	}
	if body := aws.ToString(in.Message.Body.Text.Data); body != "Your verification code: 123456" {
		t.Errorf("unexpected body %q", body)
	}

	client.err = errors.New("throttled")
	if err := sender.SendResetCode(context.Background(), "mika@example.com", "123456"); err == nil {
		t.Error("expected SES error to be returned")
	}
}

func TestKafkaSender(t *testing.T) {
	writer := &fakeWriter{}
	sender := newKafkaSender(writer, "Reset password OTP")
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	sender.now = func() time.Time { return now }

	if err := sender.SendResetCode(context.Background(), "mika@example.com", "654321"); err != nil {
		t.Fatalf("SendResetCode returned error: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}

	msg := writer.messages[0]
	if string(msg.Key) != "mika@example.com" {
		t.Errorf("unexpected key %q", msg.Key)
	}
	var event ResetCodeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	if event.Code != "654321" || event.Email != "mika@example.com" || !event.RequestedAt.Equal(now) {
		t.Errorf("unexpected event: %+v", event)
	}

	if err := sender.Close(); err != nil || !writer.closed {
		t.Error("Close must close the writer")
	}

	writer.err = errors.New("leader not available")
	if err := sender.SendResetCode(context.Background(), "mika@example.com", "654321"); err == nil {
		t.Error("expected publish error to be returned")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@capybara.app", "to@example.com", "Subject line", ResetCodeBody("111222")))

	for _, want := range []string{
		"From: from@capybara.app\r\n",
		"To: to@example.com\r\n",
		"Subject: Subject line\r\n",
		"\r\n\r\nYour verification code: 111222",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message does not contain %q:\n%s", want, msg)
		}
	}
}

func TestSMTPSender_RequiresHost(t *testing.T) {
	sender := NewSMTPSender(config.MailConfig{From: "from@capybara.app"})

	if err := sender.SendResetCode(context.Background(), "to@example.com", "111222"); err == nil {
		t.Error("expected error without smtp host")
	}
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))

	if err := sender.SendResetCode(context.Background(), "mika@example.com", "123456"); err != nil {
		t.Fatalf("SendResetCode returned error: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["code"] != "123456" {
		t.Errorf("unexpected log entries: %+v", entries)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		transport string
		want      string
		wantErr   bool
	}{
		{"log", "*mailer.LogSender", false},
		{"smtp", "*mailer.SMTPSender", false},
		{"kafka", "*mailer.KafkaSender", false},
		{"pigeon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			sender, err := New(context.Background(), config.MailConfig{
				Transport: tt.transport,
				Kafka:     config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "password-reset"},
			}, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unknown transport")
				}
				return
			}
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			defer sender.Close()

			if got := fmt.Sprintf("%T", sender); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
