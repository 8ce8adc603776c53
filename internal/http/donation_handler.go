package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

// DonationHandler sirve donaciones directas y el gateway de pagos simulado.
type DonationHandler struct {
	logger    *zap.Logger
	donations *service.DonationService
}

func NewDonationHandler(logger *zap.Logger, donations *service.DonationService) *DonationHandler {
	return &DonationHandler{logger: logger, donations: donations}
}

type donationRequest struct {
	CampaignID string `json:"campaign_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}

// Donate maneja POST /api/donations.
func (h *DonationHandler) Donate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "donate", err)
		return
	}
	var req donationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "donate", err)
		return
	}
	donation, err := h.donations.Donate(c.Request.Context(), userID, req.CampaignID, req.Amount)
	if err != nil {
		respondError(c, h.logger, "donate", err)
		return
	}
	c.JSON(http.StatusCreated, successBody("Donation successful", gin.H{"donation": donation}))
}

// MyDonations maneja GET /api/donations/my.
func (h *DonationHandler) MyDonations(c *gin.Context) {
	h.history(c, "donations")
}

// PaymentHistory maneja GET /api/payments/history.
func (h *DonationHandler) PaymentHistory(c *gin.Context) {
	h.history(c, "payments")
}

func (h *DonationHandler) history(c *gin.Context, key string) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "donation history", err)
		return
	}
	items, err := h.donations.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "donation history", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{key: items}))
}

// CampaignDonations maneja GET /api/donations/campaign/:id.
func (h *DonationHandler) CampaignDonations(c *gin.Context) {
	items, err := h.donations.ForCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "campaign donations", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"donations": items}))
}

// DonationStats maneja GET /api/donations/stats/:id.
func (h *DonationHandler) DonationStats(c *gin.Context) {
	stats, err := h.donations.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "donation stats", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{
		"total_donations": stats.TotalDonations,
		"total_raised":    stats.TotalRaised,
	}))
}

// Pay maneja POST /api/payments/pay.
func (h *DonationHandler) Pay(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, h.logger, "pay", service.ErrUnauthenticated)
		return
	}
	var req donationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "pay", err)
		return
	}
	receipt, err := h.donations.Pay(c.Request.Context(), claims.UserID, claims.Email, req.CampaignID, req.Amount)
	if err != nil {
		respondError(c, h.logger, "pay", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Payment successful", gin.H{
		"transaction_id": receipt.TransactionID,
		"campaign_id":    receipt.CampaignID,
		"amount":         receipt.Amount,
	}))
}

// PaymentStats maneja GET /api/payments/stats/:id.
func (h *DonationHandler) PaymentStats(c *gin.Context) {
	stats, err := h.donations.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "payment stats", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{
		"donors":      stats.TotalDonations,
		"total_funds": stats.TotalRaised,
	}))
}
