package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"CapybaraPetService/internal/auth"
	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"
	"CapybaraPetService/pkg/server"

	"go.uber.org/zap"
)

// Ответы восстановления пароля
const (
	ResetRequestedMessage  = "If email exists, reset instruction will be sent."
	OTPValidMessage        = "OTP valid. You may now reset your password."
	PasswordChangedMessage = "Password changed!"

	wrongCodeMessage = "Wrong or expired code!"
)

// PasswordResetRepositoryInterface описывает хранилище кодов восстановления
type PasswordResetRepositoryInterface interface {
	Issue(ctx context.Context, otp *models.PasswordResetOTP, deliver func(ctx context.Context) error) error
	FindValid(ctx context.Context, userID, token string, now time.Time) (*models.PasswordResetOTP, error)
	ConsumeAndSetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error
}

// ResetCodeSender доставляет код восстановления пользователю
type ResetCodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// PasswordResetService выдает, проверяет и погашает коды восстановления пароля
type PasswordResetService struct {
	resets  PasswordResetRepositoryInterface
	users   UserRepositoryInterface
	cache   UserCacheInterface
	sender  ResetCodeSender
	logger  *zap.Logger
	now     func() time.Time
	newCode func() (string, error)
	// deliveryTimeout ограничивает отправку письма внутри транзакции выдачи кода
	deliveryTimeout time.Duration
}

// NewPasswordResetService создает новый экземпляр PasswordResetService
func NewPasswordResetService(
	resets PasswordResetRepositoryInterface,
	users UserRepositoryInterface,
	cache UserCacheInterface,
	sender ResetCodeSender,
	deliveryTimeout time.Duration,
	logger *zap.Logger,
) *PasswordResetService {
	if deliveryTimeout <= 0 {
		deliveryTimeout = 10 * time.Second
	}
	return &PasswordResetService{
		resets:          resets,
		users:           users,
		cache:           cache,
		sender:          sender,
		logger:          logger,
		now:             time.Now,
		newCode:         GenerateOTP,
		deliveryTimeout: deliveryTimeout,
	}
}

// GenerateOTP возвращает случайный шестизначный код
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Request выдает код и отправляет его на почту. Ответ не зависит от того,
// зарегистрирован ли email.
func (s *PasswordResetService) Request(ctx context.Context, req *models.RequestResetRequest) (string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "", apperrors.BadRequest("Missing required fields: email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.Debug("Запрос восстановления для неизвестного email")
			server.RecordPasswordReset("request", nil)
			return ResetRequestedMessage, nil
		}
		return "", err
	}

	code, err := s.newCode()
	if err != nil {
		return "", apperrors.Internal(err)
	}

	otp := &models.PasswordResetOTP{
		UserID:    user.ID,
		Token:     code,
		ExpiresAt: s.now().Add(models.OTPTTL),
	}
	err = s.resets.Issue(ctx, otp, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
		defer cancel()
		return s.sender.SendResetCode(sendCtx, user.Email, code)
	})
	server.RecordPasswordReset("request", err)
	if err != nil {
		s.logger.Error("Failed to issue reset code", zap.Error(err), zap.String("user_id", user.ID))
		return "", err
	}

	s.logger.Info("Reset code issued", zap.String("user_id", user.ID))
	return ResetRequestedMessage, nil
}

// Verify проверяет код, не погашая его
func (s *PasswordResetService) Verify(ctx context.Context, req *models.VerifyOTPRequest) error {
	if err := missingFields(map[string]string{"email": req.Email, "otp": req.OTP}, "email", "otp"); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err == nil {
		_, err = s.resets.FindValid(ctx, user.ID, strings.TrimSpace(req.OTP), s.now())
	}
	server.RecordPasswordReset("verify", err)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.BadRequest(wrongCodeMessage)
		}
		return err
	}
	return nil
}

// Reset перепроверяет код, меняет пароль и погашает все коды пользователя
func (s *PasswordResetService) Reset(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := missingFields(map[string]string{
		"email":       req.Email,
		"otp":         req.OTP,
		"newPassword": req.NewPassword,
	}, "email", "otp", "newPassword"); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		server.RecordPasswordReset("reset", err)
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound(wrongCodeMessage)
		}
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}

	err = s.resets.ConsumeAndSetPassword(ctx, user.ID, strings.TrimSpace(req.OTP), hash, s.now())
	server.RecordPasswordReset("reset", err)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound(wrongCodeMessage)
		}
		s.logger.Error("Failed to reset password", zap.Error(err), zap.String("user_id", user.ID))
		return err
	}

	s.cache.DeleteUser(ctx, user.ID)
	s.logger.Info("Password changed", zap.String("user_id", user.ID))
	return nil
}
