package domain

import "time"

type Campaign struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	OwnerEmail   string    `json:"owner_email,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	GoalAmount   int64     `json:"goal_amount"`
	RaisedAmount int64     `json:"raised_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// CampaignSummary es la vista reducida del dashboard.
type CampaignSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	GoalAmount   int64  `json:"goal_amount"`
	RaisedAmount int64  `json:"raised_amount"`
}
