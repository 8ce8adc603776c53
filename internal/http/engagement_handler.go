package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

// EngagementHandler sirve likes y comentarios.
type EngagementHandler struct {
	logger     *zap.Logger
	engagement *service.EngagementService
}

func NewEngagementHandler(logger *zap.Logger, engagement *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{logger: logger, engagement: engagement}
}

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// Like maneja POST /api/likes/:id.
func (h *EngagementHandler) Like(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "like", err)
		return
	}
	if err := h.engagement.Like(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, "like", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Campaign liked", nil))
}

// Unlike maneja DELETE /api/likes/:id.
func (h *EngagementHandler) Unlike(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "unlike", err)
		return
	}
	if err := h.engagement.Unlike(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, "unlike", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Campaign unliked", nil))
}

// LikeCount maneja GET /api/likes/count/:id.
func (h *EngagementHandler) LikeCount(c *gin.Context) {
	n, err := h.engagement.LikeCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "like count", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"total_likes": n}))
}

// AddComment maneja POST /api/comments/:id, con :id de campaña.
func (h *EngagementHandler) AddComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "add comment", err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "add comment", err)
		return
	}
	comment, err := h.engagement.AddComment(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		respondError(c, h.logger, "add comment", err)
		return
	}
	c.JSON(http.StatusCreated, successBody("Comment added", gin.H{"comment": comment}))
}

// Comments maneja GET /api/comments/:id, con :id de campaña.
func (h *EngagementHandler) Comments(c *gin.Context) {
	comments, err := h.engagement.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list comments", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"comments": comments}))
}

// EditComment maneja PUT /api/comments/:id, con :id de comentario.
func (h *EngagementHandler) EditComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "edit comment", err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "edit comment", err)
		return
	}
	comment, err := h.engagement.EditComment(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		respondError(c, h.logger, "edit comment", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Comment updated", gin.H{"comment": comment}))
}

// DeleteComment maneja DELETE /api/comments/:id, con :id de comentario.
func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "delete comment", err)
		return
	}
	if err := h.engagement.DeleteComment(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, "delete comment", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Comment deleted", nil))
}
