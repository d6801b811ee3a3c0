package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenvo/talenvo-backend/internal/http/handlers/common"
	"github.com/talenvo/talenvo-backend/internal/metrics"
	"github.com/talenvo/talenvo-backend/internal/service"
)

// ModerationHandler отвечает за очередь модерации и решения.
type ModerationHandler struct {
	svc     *service.ModerationService
	reports *service.ReportService
}

// NewModerationHandler создаёт хэндлер модерации.
func NewModerationHandler(svc *service.ModerationService, reports *service.ReportService) *ModerationHandler {
	return &ModerationHandler{svc: svc, reports: reports}
}

// Queue GET /api/admin/reports
func (h *ModerationHandler) Queue(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	items, err := h.reports.ListQueue(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Aggregate GET /api/admin/reports/aggregate
func (h *ModerationHandler) Aggregate(c *gin.Context) {
	counts, err := h.reports.CountByTargets(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// Approve POST /api/admin/reports/:id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.svc.Approve(c.Request.Context(), userID, reportID)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.ObserveDecision(report.Status)
	c.JSON(http.StatusOK, report)
}

// Reject POST /api/admin/reports/:id/reject
func (h *ModerationHandler) Reject(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.svc.Reject(c.Request.Context(), userID, reportID)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.ObserveDecision(report.Status)
	c.JSON(http.StatusOK, report)
}

// SetUserStatus PUT /api/admin/users/:id/status
func (h *ModerationHandler) SetUserStatus(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.SetUserStatus(c.Request.Context(), actorID, userID, req.Status); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "статус обновлён", nil)
}

// DeleteAccount DELETE /api/admin/users/:id
func (h *ModerationHandler) DeleteAccount(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), actorID, userID); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "аккаунт удалён", nil)
}

// Counts GET /api/admin/counts
func (h *ModerationHandler) Counts(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	counts, err := h.svc.Counts(c.Request.Context(), actorID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, counts)
}
