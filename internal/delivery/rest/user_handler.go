package rest

import (
	"net/http"

	"CapybaraPetService/internal/models"

	"github.com/gin-gonic/gin"
)

// Root отвечает, что сервис запущен
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Pet Care Backend is running")
}

// Login проверяет учетные данные и выдает токен
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register создает пользователя
func (h *Handler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "User created", gin.H{"user_id": id})
}

// GetUser возвращает профиль
func (h *Handler) GetUser(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser частично обновляет профиль
func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "User updated", gin.H{"user": profile})
}

// GetGoals возвращает цели пользователя
func (h *Handler) GetGoals(c *gin.Context) {
	goals, err := h.users.GetGoals(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// UpdateGoals частично обновляет цели
func (h *Handler) UpdateGoals(c *gin.Context) {
	var req models.UpdateGoalsRequest
	if !bindJSON(c, &req) {
		return
	}

	goals, err := h.users.UpdateGoals(c.Request.Context(), c.Param("user_id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Goals updated", gin.H{"goals": goals})
}
