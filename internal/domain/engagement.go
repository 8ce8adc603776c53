package domain

import "time"

type Comment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CampaignID    string    `json:"campaign_id"`
	Body          string    `json:"comment"`
	AuthorEmail   string    `json:"author_email,omitempty"`
	CampaignTitle string    `json:"campaign_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Like struct {
	UserID        string    `json:"user_id"`
	CampaignID    string    `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
