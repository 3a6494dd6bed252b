package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"CapybaraPetService/internal/auth"
	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"

	"go.uber.org/zap"
)

type resetFixture struct {
	svc    *PasswordResetService
	users  *MockUserRepository
	cache  *MockUserCache
	resets *MockPasswordResetRepository
	sender *MockResetCodeSender
	now    time.Time
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	hash, err := auth.HashPassword("old-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	users := NewMockUserRepository()
	users.users["ab12c"] = &models.User{ID: "ab12c", Email: "mika@example.com", PasswordHash: hash}

	f := &resetFixture{
		users:  users,
		cache:  NewMockUserCache(),
		resets: NewMockPasswordResetRepository(users),
		sender: &MockResetCodeSender{},
		now:    time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewPasswordResetService(f.resets, users, f.cache, f.sender, time.Second, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	f.svc.newCode = func() (string, error) { return "123456", nil }
	return f
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP returned error: %v", err)
		}
		if len(code) != models.OTPLength || code[0] == '0' {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestRequestReset(t *testing.T) {
	f := newResetFixture(t)

	msg, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "mika@example.com"})
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if msg != ResetRequestedMessage {
		t.Errorf("unexpected message %q", msg)
	}
	if f.sender.sent["mika@example.com"] != "123456" {
		t.Errorf("code was not delivered: %+v", f.sender.sent)
	}
	otp := f.resets.codes["ab12c"]
	if otp == nil || !otp.ExpiresAt.Equal(f.now.Add(models.OTPTTL)) {
		t.Errorf("unexpected stored code: %+v", otp)
	}
}

func TestRequestReset_UnknownEmailLooksTheSame(t *testing.T) {
	f := newResetFixture(t)

	msg, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if msg != ResetRequestedMessage {
		t.Errorf("unexpected message %q", msg)
	}
	if len(f.sender.sent) != 0 || len(f.resets.codes) != 0 {
		t.Error("nothing should be issued for an unknown email")
	}
}

func TestRequestReset_DeliveryFailure(t *testing.T) {
	f := newResetFixture(t)
	f.sender.err = errors.New("smtp unavailable")

	if _, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "mika@example.com"}); err == nil {
		t.Fatal("expected delivery error")
	}
	if len(f.resets.codes) != 0 {
		t.Error("undelivered code must not stay valid")
	}
}

func TestRequestReset_DeliveryTimeout(t *testing.T) {
	f := newResetFixture(t)
	f.svc.deliveryTimeout = 50 * time.Millisecond
	f.sender.block = true

	start := time.Now()
	_, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "mika@example.com"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !f.sender.hadDeadline {
		t.Error("sender must receive a context with a deadline")
	}
	if elapsed > time.Second {
		t.Errorf("Request must return within the delivery timeout, took %v", elapsed)
	}
	if len(f.resets.codes) != 0 {
		t.Error("timed out delivery must roll the code back")
	}
}

func TestNewPasswordResetService_DefaultDeliveryTimeout(t *testing.T) {
	svc := NewPasswordResetService(nil, nil, nil, nil, 0, zap.NewNop())
	if svc.deliveryTimeout != 10*time.Second {
		t.Errorf("expected default delivery timeout 10s, got %v", svc.deliveryTimeout)
	}
}

func TestRequestReset_MissingEmail(t *testing.T) {
	f := newResetFixture(t)

	if _, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: " "}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected bad request, got %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	f := newResetFixture(t)
	if _, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "mika@example.com"}); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	if err := f.svc.Verify(context.Background(), &models.VerifyOTPRequest{Email: "mika@example.com", OTP: "123456"}); err != nil {
		t.Errorf("expected valid code, got %v", err)
	}
	if f.resets.codes["ab12c"] == nil {
		t.Error("verification must not consume the code")
	}

	tests := []struct {
		name string
		req  *models.VerifyOTPRequest
	}{
		{"wrong code", &models.VerifyOTPRequest{Email: "mika@example.com", OTP: "654321"}},
		{"unknown email", &models.VerifyOTPRequest{Email: "ghost@example.com", OTP: "123456"}},
		{"missing code", &models.VerifyOTPRequest{Email: "mika@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.svc.Verify(context.Background(), tt.req); !errors.Is(err, apperrors.ErrBadRequest) {
				t.Errorf("expected bad request, got %v", err)
			}
		})
	}

	f.now = f.now.Add(models.OTPTTL)
	if err := f.svc.Verify(context.Background(), &models.VerifyOTPRequest{Email: "mika@example.com", OTP: "123456"}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected expired code to be rejected, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	f := newResetFixture(t)
	if _, err := f.svc.Request(context.Background(), &models.RequestResetRequest{Email: "mika@example.com"}); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	err := f.svc.Reset(context.Background(), &models.ResetPasswordRequest{Email: "mika@example.com", OTP: "123456", NewPassword: "new-password"})
	if err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if !auth.CheckPassword(f.users.users["ab12c"].PasswordHash, "new-password") {
		t.Error("password was not changed")
	}
	if len(f.cache.deleted) != 1 || f.cache.deleted[0] != "ab12c" {
		t.Error("cached profile must be invalidated")
	}

	err = f.svc.Reset(context.Background(), &models.ResetPasswordRequest{Email: "mika@example.com", OTP: "123456", NewPassword: "again"})
	if apperrors.HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("consumed code must not be reusable, got %v", err)
	}
}

func TestResetPassword_Errors(t *testing.T) {
	f := newResetFixture(t)

	err := f.svc.Reset(context.Background(), &models.ResetPasswordRequest{Email: "mika@example.com", OTP: "123456"})
	if !errors.Is(err, apperrors.ErrBadRequest) || err.Error() != "Missing required fields: newPassword" {
		t.Errorf("expected missing newPassword, got %v", err)
	}

	err = f.svc.Reset(context.Background(), &models.ResetPasswordRequest{Email: "ghost@example.com", OTP: "123456", NewPassword: "x"})
	if apperrors.HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown email, got %v", err)
	}

	err = f.svc.Reset(context.Background(), &models.ResetPasswordRequest{Email: "mika@example.com", OTP: "000000", NewPassword: "x"})
	if apperrors.HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 without issued code, got %v", err)
	}
	if !auth.CheckPassword(f.users.users["ab12c"].PasswordHash, "old-password") {
		t.Error("password must stay unchanged")
	}
}
