package repository

import (
	"context"
	"fmt"

	"crowdfund/internal/domain"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign domain.Campaign) error
	GetByID(ctx context.Context, id string) (domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.CampaignSummary, error)
	Update(ctx context.Context, campaign domain.Campaign) error
	Delete(ctx context.Context, id string) error
}

type PgCampaignRepository struct {
	db DBTX
}

func NewPgCampaignRepository(db DBTX) *PgCampaignRepository {
	return &PgCampaignRepository{db: db}
}

func (r *PgCampaignRepository) Create(ctx context.Context, campaign domain.Campaign) error {
	const query = `
		INSERT INTO campaigns (id, user_id, title, description, goal_amount, raised_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		campaign.ID,
		campaign.UserID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.RaisedAmount,
		campaign.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *PgCampaignRepository) GetByID(ctx context.Context, id string) (domain.Campaign, error) {
	const query = `
		SELECT c.id, c.user_id, u.email, c.title, c.description, c.goal_amount, c.raised_amount, c.created_at
		FROM campaigns c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	var c domain.Campaign
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.OwnerEmail,
		&c.Title,
		&c.Description,
		&c.GoalAmount,
		&c.RaisedAmount,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Campaign{}, translate(err)
	}
	return c, nil
}

func (r *PgCampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	const query = `
		SELECT c.id, c.user_id, u.email, c.title, c.description, c.goal_amount, c.raised_amount, c.created_at
		FROM campaigns c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []domain.Campaign{}
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.OwnerEmail,
			&c.Title,
			&c.Description,
			&c.GoalAmount,
			&c.RaisedAmount,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *PgCampaignRepository) ListByOwner(ctx context.Context, userID string) ([]domain.CampaignSummary, error) {
	const query = `
		SELECT id, title, goal_amount, raised_amount
		FROM campaigns
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list owner campaigns: %w", err)
	}
	defer rows.Close()

	out := []domain.CampaignSummary{}
	for rows.Next() {
		var s domain.CampaignSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.GoalAmount, &s.RaisedAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PgCampaignRepository) Update(ctx context.Context, campaign domain.Campaign) error {
	const query = `
		UPDATE campaigns
		SET title = $1, description = $2, goal_amount = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgCampaignRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
