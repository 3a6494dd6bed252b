package rest

import (
	"net/http"
	"strconv"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CreatePet создает питомца и привязывает его к пользователю
func (h *Handler) CreatePet(c *gin.Context) {
	var req models.CreatePetRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID != "" && !ownsUser(c, req.UserID) {
		return
	}

	pet, err := h.pets.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Pet created", gin.H{"id": pet.ID})
}

// ListPets возвращает питомцев пользователя
func (h *Handler) ListPets(c *gin.Context) {
	pets, err := h.pets.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if pets == nil {
		pets = []models.PetWithType{}
	}
	c.JSON(http.StatusOK, pets)
}

// UpdatePetStatus меняет эмоцию питомца
func (h *Handler) UpdatePetStatus(c *gin.Context) {
	var req models.PetStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.pets.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, "Pet status updated", gin.H{"id": id})
}

// GetPetStatus возвращает эмоцию и погоду питомца
func (h *Handler) GetPetStatus(c *gin.Context) {
	petID, err := strconv.ParseUint(c.Param("pet_id"), 10, 64)
	if err != nil || petID == 0 {
		respondError(c, h.logger, apperrors.BadRequest("Invalid pet_id"))
		return
	}

	status, err := h.pets.Status(c.Request.Context(), uint(petID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// PetAction кормит или поит питомца
func (h *Handler) PetAction(c *gin.Context) {
	var req models.PetActionRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.pets.PerformAction(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondMessage(c, req.Action+" action performed", gin.H{"id": id})
}
