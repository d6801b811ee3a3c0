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

// LikeHandler отвечает за лайки и подписки.
type LikeHandler struct {
	svc *service.LikeService
}

// NewLikeHandler создаёт хэндлер лайков и подписок.
func NewLikeHandler(svc *service.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// ToggleLike POST /api/likes/toggle
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		TargetType string    `json:"target_type" binding:"required"`
		TargetID   uuid.UUID `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.ToggleLike(c.Request.Context(), userID, models.TargetType(req.TargetType), req.TargetID)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.ObserveToggle("like", result.Active)
	c.JSON(http.StatusOK, result)
}

// LikeState GET /api/likes/state?target_type=...&target_id=...
func (h *LikeHandler) LikeState(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetType := models.TargetType(c.Query("target_type"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil || !targetType.Likeable() {
		common.RespondBadRequest(c, "некорректные параметры цели")
		return
	}

	active, err := h.svc.IsLiked(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": active})
}

// ToggleFollow POST /api/users/:id/follow
func (h *LikeHandler) ToggleFollow(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	followedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.ToggleFollow(c.Request.Context(), userID, followedID)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.ObserveToggle("follow", result.Active)
	c.JSON(http.StatusOK, result)
}

// FollowState GET /api/users/:id/follow
func (h *LikeHandler) FollowState(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	followedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	active, err := h.svc.IsFollowing(c.Request.Context(), userID, followedID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": active})
}
