package rest

import (
	"net/http"

	"CapybaraPetService/internal/models"

	"github.com/gin-gonic/gin"
)

// FetchWeather получает погоду для города из query-параметра city
func (h *Handler) FetchWeather(c *gin.Context) {
	result, err := h.weather.Fetch(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SaveEnvironment сохраняет погоду по описанию из справочника
func (h *Handler) SaveEnvironment(c *gin.Context) {
	var req models.EnvironmentDataRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.weather.SaveEnvironment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Environment data saved", gin.H{"id": id})
}

// LatestEnvironment возвращает последнюю строку погоды
func (h *Handler) LatestEnvironment(c *gin.Context) {
	latest, err := h.weather.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}
