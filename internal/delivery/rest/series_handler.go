package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Series возвращает обработчик графика для временного ряда metric.
// Без user_id в запросе используется пользователь из токена.
func (h *Handler) Series(metric string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			if identity, ok := IdentityFrom(c); ok {
				userID = identity.UserID
			}
		} else if !ownsUser(c, userID) {
			return
		}

		series, err := h.series.GetSeries(c.Request.Context(), metric, c.Param("mode"), userID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, series)
	}
}
