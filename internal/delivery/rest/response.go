package rest

import (
	"net/http"

	"CapybaraPetService/pkg/apperrors"
	"CapybaraPetService/pkg/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidBodyMessage = "Invalid request body"

// respondError отвечает {error: msg} с кодом по виду ошибки
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		server.WithRequestID(c.Request.Context(), logger).Error("Ошибка обработки запроса",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// respondMessage отвечает {message, ...fields}
func respondMessage(c *gin.Context, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// bindJSON разбирает тело запроса; при ошибке отвечает 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return false
	}
	return true
}
