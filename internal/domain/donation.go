package domain

import "time"

// Donation guarda montos en unidades menores de la moneda.
type Donation struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CampaignID    string    `json:"campaign_id"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CampaignTitle string    `json:"campaign_title,omitempty"`
	DonorEmail    string    `json:"donor_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type DonationStats struct {
	TotalDonations int64 `json:"total_donations"`
	TotalRaised    int64 `json:"total_raised"`
}

// PaymentReceipt es la respuesta del gateway simulado.
type PaymentReceipt struct {
	TransactionID string `json:"transaction_id"`
	CampaignID    string `json:"campaign_id"`
	Amount        int64  `json:"amount"`
}
