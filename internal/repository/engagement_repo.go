package repository

import (
	"context"
	"fmt"

	"crowdfund/internal/domain"
)

type LikeRepository interface {
	Like(ctx context.Context, like domain.Like) error
	Unlike(ctx context.Context, userID, campaignID string) error
	Count(ctx context.Context, campaignID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Like, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	GetByID(ctx context.Context, id string) (domain.Comment, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Comment, error)
	UpdateBody(ctx context.Context, id, body string) error
	Delete(ctx context.Context, id string) error
}

type PgLikeRepository struct {
	db DBTX
}

func NewPgLikeRepository(db DBTX) *PgLikeRepository {
	return &PgLikeRepository{db: db}
}

// Like es idempotente: un segundo like del mismo usuario no hace nada.
func (r *PgLikeRepository) Like(ctx context.Context, like domain.Like) error {
	const query = `
		INSERT INTO likes (user_id, campaign_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, campaign_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, like.UserID, like.CampaignID, like.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *PgLikeRepository) Unlike(ctx context.Context, userID, campaignID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND campaign_id = $2`, userID, campaignID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *PgLikeRepository) Count(ctx context.Context, campaignID string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE campaign_id = $1`, campaignID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

func (r *PgLikeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Like, error) {
	const query = `
		SELECT l.user_id, l.campaign_id, c.title, l.created_at
		FROM likes l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	out := []domain.Like{}
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.UserID, &l.CampaignID, &l.CampaignTitle, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type PgCommentRepository struct {
	db DBTX
}

func NewPgCommentRepository(db DBTX) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

func (r *PgCommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	const query = `
		INSERT INTO comments (id, user_id, campaign_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.UserID,
		comment.CampaignID,
		comment.Body,
		comment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *PgCommentRepository) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	const query = `SELECT id, user_id, campaign_id, body, created_at FROM comments WHERE id = $1`
	var c domain.Comment
	if err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.UserID, &c.CampaignID, &c.Body, &c.CreatedAt); err != nil {
		return domain.Comment{}, translate(err)
	}
	return c, nil
}

func (r *PgCommentRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Comment, error) {
	const query = `
		SELECT c.id, c.user_id, c.campaign_id, c.body, u.email, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.campaign_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign comments: %w", err)
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.CampaignID, &c.Body, &c.AuthorEmail, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgCommentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	const query = `
		SELECT c.id, c.user_id, c.campaign_id, c.body, ca.title, c.created_at
		FROM comments c
		JOIN campaigns ca ON ca.id = c.campaign_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.CampaignID, &c.Body, &c.CampaignTitle, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgCommentRepository) UpdateBody(ctx context.Context, id, body string) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET body = $1 WHERE id = $2`, body, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgCommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
