package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/http/handlers/common"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/service"
)

// PostHandler отвечает за публикации и ленту.
type PostHandler struct {
	svc *service.PostService
}

// NewPostHandler создаёт хэндлер публикаций.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Kind    string     `json:"kind" binding:"required"`
		Content string     `json:"content" binding:"required"`
		MediaID *uuid.UUID `json:"media_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(c.Request.Context(), service.CreatePostInput{
		AuthorID: userID,
		Kind:     req.Kind,
		Content:  req.Content,
		MediaID:  req.MediaID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	page, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.svc.GetByID(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Content string     `json:"content" binding:"required"`
		MediaID *uuid.UUID `json:"media_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Request.Context(), userID, postID, req.Content, req.MediaID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	user, err := common.CurrentUser(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user, postID); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "публикация удалена", nil)
}

// ListByAuthor GET /api/users/:id/posts
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	posts, err := h.svc.ListByAuthor(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}
