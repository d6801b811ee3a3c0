package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/http/handlers/common"
	"github.com/talenvo/talenvo-backend/internal/metrics"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/service"
)

// ReportHandler отвечает за подачу жалоб.
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler создаёт хэндлер жалоб.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Create POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		TargetType  string     `json:"target_type" binding:"required"`
		TargetID    uuid.UUID  `json:"target_id" binding:"required"`
		Reason      string     `json:"reason" binding:"required"`
		Description *string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.svc.Create(c.Request.Context(), service.CreateReportInput{
		ReporterID:  userID,
		TargetType:  models.TargetType(req.TargetType),
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}

	metrics.ObserveReport(req.TargetType)
	c.JSON(http.StatusCreated, report)
}

// ListMy GET /api/reports
func (h *ReportHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	reports, err := h.svc.ListMyReports(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// CountByTarget GET /api/reports/count?target_type=...&target_id=...
func (h *ReportHandler) CountByTarget(c *gin.Context) {
	targetType := models.TargetType(c.Query("target_type"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil || !targetType.Valid() {
		common.RespondBadRequest(c, "некорректные параметры цели")
		return
	}

	count, err := h.svc.CountByTarget(c.Request.Context(), targetType, targetID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
