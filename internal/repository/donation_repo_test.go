package repository

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/domain"
)

func TestPgDonationRepository_CreateCommitsBothWrites(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgDonationRepository(mock)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE campaigns SET raised_amount = raised_amount \+ \$1`).
		WithArgs(int64(500), "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO donations`).
		WithArgs("d1", "u1", "c1", int64(500), "TXN_1", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), domain.Donation{
		ID:            "d1",
		UserID:        "u1",
		CampaignID:    "c1",
		Amount:        500,
		TransactionID: "TXN_1",
		CreatedAt:     now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgDonationRepository_CreateRollsBackOnMissingCampaign(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgDonationRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE campaigns SET raised_amount`).
		WithArgs(int64(500), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), domain.Donation{
		ID:         "d1",
		UserID:     "u1",
		CampaignID: "missing",
		Amount:     500,
		CreatedAt:  time.Now().UTC(),
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgDonationRepository_Stats(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgDonationRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(amount\), 0\)`).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(3), int64(1500)))

	stats, err := repo.Stats(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, domain.DonationStats{TotalDonations: 3, TotalRaised: 1500}, stats)
}
