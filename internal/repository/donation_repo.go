package repository

import (
	"context"
	"fmt"

	"crowdfund/internal/domain"
)

type DonationRepository interface {
	// Create inserta la donacion y suma el monto a la campaña en una transaccion.
	Create(ctx context.Context, donation domain.Donation) error
	ListByUser(ctx context.Context, userID string) ([]domain.Donation, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error)
	Stats(ctx context.Context, campaignID string) (domain.DonationStats, error)
}

type PgDonationRepository struct {
	db DBTX
}

func NewPgDonationRepository(db DBTX) *PgDonationRepository {
	return &PgDonationRepository{db: db}
}

func (r *PgDonationRepository) Create(ctx context.Context, donation domain.Donation) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin donation tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const bump = `UPDATE campaigns SET raised_amount = raised_amount + $1 WHERE id = $2`
	tag, err := tx.Exec(ctx, bump, donation.Amount, donation.CampaignID)
	if err != nil {
		return fmt.Errorf("raise campaign amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	const insert = `
		INSERT INTO donations (id, user_id, campaign_id, amount, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err = tx.Exec(ctx, insert,
		donation.ID,
		donation.UserID,
		donation.CampaignID,
		donation.Amount,
		nullableString(donation.TransactionID),
		donation.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *PgDonationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Donation, error) {
	const query = `
		SELECT d.id, d.user_id, d.campaign_id, d.amount, COALESCE(d.transaction_id, ''), c.title, d.created_at
		FROM donations d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user donations: %w", err)
	}
	defer rows.Close()

	out := []domain.Donation{}
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.UserID, &d.CampaignID, &d.Amount, &d.TransactionID, &d.CampaignTitle, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PgDonationRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	const query = `
		SELECT d.id, d.user_id, d.campaign_id, d.amount, u.email, d.created_at
		FROM donations d
		JOIN users u ON u.id = d.user_id
		WHERE d.campaign_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign donations: %w", err)
	}
	defer rows.Close()

	out := []domain.Donation{}
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.UserID, &d.CampaignID, &d.Amount, &d.DonorEmail, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PgDonationRepository) Stats(ctx context.Context, campaignID string) (domain.DonationStats, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM donations
		WHERE campaign_id = $1
	`
	var s domain.DonationStats
	if err := r.db.QueryRow(ctx, query, campaignID).Scan(&s.TotalDonations, &s.TotalRaised); err != nil {
		return domain.DonationStats{}, fmt.Errorf("donation stats: %w", err)
	}
	return s, nil
}
