package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

type DashboardHandler struct {
	logger    *zap.Logger
	dashboard *service.DashboardService
}

func NewDashboardHandler(logger *zap.Logger, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{logger: logger, dashboard: dashboard}
}

// Funded maneja GET /api/dashboard/funded.
func (h *DashboardHandler) Funded(c *gin.Context) {
	serveView(c, h.logger, "funded", func(ctx context.Context, userID string) (any, error) {
		return h.dashboard.Funded(ctx, userID)
	})
}

// Comments maneja GET /api/dashboard/comments.
func (h *DashboardHandler) Comments(c *gin.Context) {
	serveView(c, h.logger, "comments", func(ctx context.Context, userID string) (any, error) {
		return h.dashboard.Comments(ctx, userID)
	})
}

// MyCampaigns maneja GET /api/dashboard/my-campaigns.
func (h *DashboardHandler) MyCampaigns(c *gin.Context) {
	serveView(c, h.logger, "campaigns", func(ctx context.Context, userID string) (any, error) {
		return h.dashboard.MyCampaigns(ctx, userID)
	})
}

// Likes maneja GET /api/dashboard/likes.
func (h *DashboardHandler) Likes(c *gin.Context) {
	serveView(c, h.logger, "likes", func(ctx context.Context, userID string) (any, error) {
		return h.dashboard.Likes(ctx, userID)
	})
}

func serveView(c *gin.Context, logger *zap.Logger, key string, load func(context.Context, string) (any, error)) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, logger, "dashboard "+key, err)
		return
	}
	items, err := load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, "dashboard "+key, err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{key: items}))
}
