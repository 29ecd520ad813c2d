package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiksliukai-lt/tutoring-service/internal/services"
	"github.com/tiksliukai-lt/tutoring-service/internal/utils"
)

type LessonHandler struct {
	BaseHandler
	service services.LessonService
}

func NewLessonHandler(service services.LessonService, logger utils.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== LESSON ENDPOINTS =====

// ListTutorLessons lists the authenticated tutor's lessons
// @Summary List tutor lessons
// @Tags lessons
// @Produce json
// @Param from query string false "Range start, YYYY-MM-DD"
// @Param to query string false "Range end, YYYY-MM-DD"
// @Success 200 {object} services.LessonListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /lessons [get]
func (h *LessonHandler) ListTutorLessons(c *gin.Context) {
	h.LogRequest(c, "Listing tutor lessons")

	tutorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid date parameter",
			Details: "Dates must be in YYYY-MM-DD format",
		})
		return
	}

	lessons, err := h.service.ListByTutor(c.Request.Context(), tutorID, from, to)
	if err != nil {
		h.LogError(c, err, "Failed to list lessons")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Serverio klaida",
		})
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// ListBookedLessons lists the authenticated client's booked lessons
// @Summary List booked lessons
// @Tags lessons
// @Produce json
// @Param from query string false "Range start, YYYY-MM-DD"
// @Param to query string false "Range end, YYYY-MM-DD"
// @Success 200 {object} services.LessonListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /lessons/booked [get]
func (h *LessonHandler) ListBookedLessons(c *gin.Context) {
	h.LogRequest(c, "Listing booked lessons")

	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid date parameter",
			Details: "Dates must be in YYYY-MM-DD format",
		})
		return
	}

	lessons, err := h.service.ListByStudent(c.Request.Context(), studentID, from, to)
	if err != nil {
		h.LogError(c, err, "Failed to list lessons")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Serverio klaida",
		})
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// ExportReport downloads the tutor's lessons as an Excel workbook
// @Summary Export lesson report
// @Tags lessons
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Range start, YYYY-MM-DD (default: first of month)"
// @Param to query string false "Range end, YYYY-MM-DD (default: now)"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /lessons/report [get]
func (h *LessonHandler) ExportReport(c *gin.Context) {
	h.LogRequest(c, "Exporting lesson report")

	tutorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	fromPtr, toPtr, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid date parameter",
			Details: "Dates must be in YYYY-MM-DD format",
		})
		return
	}
	if fromPtr != nil {
		from = *fromPtr
	}
	if toPtr != nil {
		to = toPtr.AddDate(0, 0, 1)
	}

	report, err := h.service.ExportReport(c.Request.Context(), tutorID, from, to)
	if err != nil {
		h.LogError(c, err, "Failed to export lesson report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Serverio klaida",
		})
		return
	}

	filename := fmt.Sprintf("pamokos-%s.xlsx", from.Format("2006-01"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}

	return from, to, nil
}
