package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiksliukai-lt/tutoring-service/internal/services"
	"github.com/tiksliukai-lt/tutoring-service/internal/utils"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

type AvailabilityHandler struct {
	BaseHandler
	service services.AvailabilityService
}

func NewAvailabilityHandler(service services.AvailabilityService, logger utils.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== AVAILABILITY ENDPOINTS =====

// CreateSlot creates an availability slot for the authenticated tutor
// @Summary Create availability slot
// @Tags availability
// @Accept json
// @Produce json
// @Param request body services.CreateSlotRequest true "Slot time range"
// @Success 201 {object} models.AvailabilitySlot
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /availability [post]
func (h *AvailabilityHandler) CreateSlot(c *gin.Context) {
	h.LogRequest(c, "Creating availability slot")

	tutorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), &req, tutorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListSlots lists the authenticated tutor's slots for a given day
// @Summary List availability slots
// @Tags availability
// @Produce json
// @Param date query string false "Day to list, RFC 3339 date (default: today)"
// @Success 200 {array} models.AvailabilitySlot
// @Failure 400 {object} ErrorResponse "Bad request - invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /availability [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	h.LogRequest(c, "Listing availability slots")

	tutorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date parameter",
				Details: "Date must be in YYYY-MM-DD format",
			})
			return
		}
	}

	slots, err := h.service.ListByDay(c.Request.Context(), tutorID, day)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// DeleteSlot removes an unbooked slot owned by the authenticated tutor
// @Summary Delete availability slot
// @Tags availability
// @Produce json
// @Param id path int true "Slot ID"
// @Success 204 "No content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the slot owner"
// @Failure 404 {object} ErrorResponse "Slot not found"
// @Failure 409 {object} ErrorResponse "Slot already booked"
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) DeleteSlot(c *gin.Context) {
	id, err := parseSlotID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid slot ID",
		})
		return
	}

	h.LogRequest(c, "Deleting availability slot", "slot_id", id)

	tutorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), id, tutorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BookSlot books a free slot for the authenticated client
// @Summary Book an availability slot
// @Tags availability
// @Produce json
// @Param id path int true "Slot ID"
// @Success 201 {object} models.Lesson
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Slot not found"
// @Failure 409 {object} ErrorResponse "Slot already booked"
// @Router /availability/{id}/book [post]
func (h *AvailabilityHandler) BookSlot(c *gin.Context) {
	id, err := parseSlotID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid slot ID",
		})
		return
	}

	h.LogRequest(c, "Booking availability slot", "slot_id", id)

	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	lesson, err := h.service.BookSlot(c.Request.Context(), id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func parseSlotID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ===== ERROR HANDLING =====

func (h *AvailabilityHandler) handleServiceError(c *gin.Context, err error) {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Message,
			Details: gin.H{"field": verr.Field},
		})
	case errors.Is(err, services.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Slot not found",
		})
	case errors.Is(err, services.ErrSlotAlreadyBooked), errors.Is(err, services.ErrSlotBooked):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Slot is already booked",
		})
	case errors.Is(err, services.ErrNotSlotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Serverio klaida",
		})
	}
}
