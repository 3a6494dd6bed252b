package rest

import (
	"CapybaraPetService/internal/models"
	"CapybaraPetService/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestReset выдает код восстановления
func (h *Handler) RequestReset(c *gin.Context) {
	var req models.RequestResetRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.resets.Request(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, message, nil)
}

// VerifyOTP проверяет код, не погашая его
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resets.Verify(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, service.OTPValidMessage, gin.H{"success": true})
}

// ResetPassword меняет пароль по коду
func (h *Handler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resets.Reset(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, service.PasswordChangedMessage, nil)
}
