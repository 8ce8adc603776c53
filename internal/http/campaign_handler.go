package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

type CampaignHandler struct {
	logger    *zap.Logger
	campaigns *service.CampaignService
}

func NewCampaignHandler(logger *zap.Logger, campaigns *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{logger: logger, campaigns: campaigns}
}

type campaignRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goal_amount" binding:"required"`
}

func (r campaignRequest) input() service.CampaignInput {
	return service.CampaignInput{Title: r.Title, Description: r.Description, GoalAmount: r.GoalAmount}
}

// Create maneja POST /api/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "create campaign", err)
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "create campaign", err)
		return
	}
	campaign, err := h.campaigns.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.logger, "create campaign", err)
		return
	}
	c.JSON(http.StatusCreated, successBody("Campaign created", gin.H{"campaign": campaign}))
}

// List maneja GET /api/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaigns.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list campaigns", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"campaigns": campaigns}))
}

// Get maneja GET /api/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.campaigns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get campaign", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"campaign": campaign}))
}

// Update maneja PUT /api/campaigns/:id.
func (h *CampaignHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "update campaign", err)
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "update campaign", err)
		return
	}
	campaign, err := h.campaigns.Update(c.Request.Context(), userID, c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, "update campaign", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Campaign updated", gin.H{"campaign": campaign}))
}

// Delete maneja DELETE /api/campaigns/:id.
func (h *CampaignHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "delete campaign", err)
		return
	}
	if err := h.campaigns.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, "delete campaign", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Campaign deleted", nil))
}
