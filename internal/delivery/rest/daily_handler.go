package rest

import (
	"net/http"

	"CapybaraPetService/internal/models"

	"github.com/gin-gonic/gin"
)

// LogMetric возвращает обработчик записи значения во временной ряд metric
func (h *Handler) LogMetric(metric string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MetricLogRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.UserID != "" && !ownsUser(c, req.UserID) {
			return
		}

		id, err := h.daily.LogMetric(c.Request.Context(), metric, &req)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		respondMessage(c, "Data logged", gin.H{"id": id})
	}
}

// LogSleep записывает сон
func (h *Handler) LogSleep(c *gin.Context) {
	var req models.SleepLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID != "" && !ownsUser(c, req.UserID) {
		return
	}

	entry, err := h.daily.LogSleep(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Sleep logged", gin.H{"id": entry.ID, "duration_minutes": entry.DurationMinutes})
}

// DailySummary возвращает итоги дня
func (h *Handler) DailySummary(c *gin.Context) {
	summary, err := h.daily.Summary(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
