package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/domain"
)

func TestPgCampaignRepository_ListJoinsOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgCampaignRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_id", "email", "title", "description", "goal_amount", "raised_amount", "created_at"}).
		AddRow("c2", "u1", "owner@x.com", "Second", "", int64(1000), int64(0), now).
		AddRow("c1", "u1", "owner@x.com", "First", "desc", int64(5000), int64(250), now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT .* FROM campaigns c\s+JOIN users u`).WillReturnRows(rows)

	campaigns, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	require.Equal(t, "c2", campaigns[0].ID)
	require.Equal(t, "owner@x.com", campaigns[1].OwnerEmail)
	require.Equal(t, int64(250), campaigns[1].RaisedAmount)
}

func TestPgCampaignRepository_UpdateMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgCampaignRepository(mock)

	mock.ExpectExec(`UPDATE campaigns`).
		WithArgs("t", "d", int64(10), "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), domain.Campaign{ID: "c1", Title: "t", Description: "d", GoalAmount: 10})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPgLikeRepository_LikeUnknownCampaign(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgLikeRepository(mock)

	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs("u1", "c404", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Like(context.Background(), domain.Like{UserID: "u1", CampaignID: "c404", CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPgCommentRepository_DeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgCommentRepository(mock)

	mock.ExpectExec(`DELETE FROM comments`).
		WithArgs("k1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.Delete(context.Background(), "k1"), ErrNotFound)
}
