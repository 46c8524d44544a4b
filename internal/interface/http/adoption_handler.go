package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/stray2stay/api/internal/application"
	"github.com/stray2stay/api/pkg/response"
	"github.com/stray2stay/api/pkg/validation"
)

type AdoptionHandler struct {
	Svc    *app.AdoptionService
	Logger *logrus.Logger
}

func NewAdoptionHandler(svc *app.AdoptionService, logger *logrus.Logger) *AdoptionHandler {
	return &AdoptionHandler{Svc: svc, Logger: logger}
}

type requestAdoptionRequest struct {
	AnimalID    string `json:"animalId" binding:"required,uuid"`
	Message     string `json:"message"`
	ContactInfo string `json:"contactInfo" binding:"required"`
}

func (h *AdoptionHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req requestAdoptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	adoption, err := h.Svc.RequestAdoption(c.Request.Context(), uid, req.AnimalID, req.Message, req.ContactInfo)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"adoption": adoption}, "adoption request created successfully", nil)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved completed cancelled"`
	Notes  string `json:"notes"`
}

func (h *AdoptionHandler) UpdateStatus(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	adoption, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), uid, req.Status, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"adoption": adoption}, "adoption status updated successfully", nil)
}

func (h *AdoptionHandler) ListForUser(c *gin.Context) {
	uid := c.GetString("userID")
	adoptions, err := h.Svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"adoptions": adoptions}, "adoptions", nil)
}
