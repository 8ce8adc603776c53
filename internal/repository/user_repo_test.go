package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPgUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("u1", "a@x.com", "hash", false, "tok", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	expires := time.Now().Add(time.Hour)
	err := repo.Create(context.Background(), domain.User{
		ID:                  "u1",
		Email:               "a@x.com",
		PasswordHash:        "hash",
		VerificationToken:   "tok",
		VerificationExpires: &expires,
		CreatedAt:           time.Now().UTC(),
	})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_GetByVerificationToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	expires := time.Now().UTC().Add(time.Hour)
	token := "tok"
	rows := pgxmock.NewRows([]string{
		"id", "email", "password_hash", "is_verified", "verification_token", "verification_expires", "reset_token", "reset_expires", "created_at",
	}).AddRow("u1", "a@x.com", "hash", false, &token, &expires, nil, nil, time.Now().UTC())

	mock.ExpectQuery(`SELECT .* FROM users WHERE verification_token = \$1`).
		WithArgs("tok").
		WillReturnRows(rows)

	user, err := repo.GetByVerificationToken(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "tok", user.VerificationToken)
	require.NotNil(t, user.VerificationExpires)
	require.Empty(t, user.ResetToken)
	require.Nil(t, user.ResetExpires)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("missing@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPgUserRepository_EmptyTokenNeverQueries(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	_, err := repo.GetByResetToken(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_UpdateClearsPairInOneStatement(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	verified := true
	mock.ExpectExec(`UPDATE users SET is_verified = \$1, verification_expires = \$2, verification_token = \$3 WHERE id = \$4 AND verification_token = \$5`).
		WithArgs(true, nil, nil, "u1", "tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "u1", domain.UserUpdate{
		IsVerified:              &verified,
		Verification:            domain.ClearToken(),
		ExpectVerificationToken: "tok",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_UpdateLostRace(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	hash := "new-hash"
	mock.ExpectExec(`UPDATE users SET password_hash = \$1, reset_expires = \$2, reset_token = \$3 WHERE id = \$4 AND reset_token = \$5`).
		WithArgs("new-hash", nil, nil, "u1", "reset-tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), "u1", domain.UserUpdate{
		PasswordHash:     &hash,
		Reset:            domain.ClearToken(),
		ExpectResetToken: "reset-tok",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPgUserRepository_UpdateIssuesTokenWithExpiry(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE users SET reset_expires = \$1, reset_token = \$2 WHERE id = \$3`).
		WithArgs(expires, "fresh", "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "u1", domain.UserUpdate{
		Reset: domain.IssueToken("fresh", expires),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_UpdateWrapsDriverErrors(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	verified := true
	mock.ExpectExec(`UPDATE users`).WillReturnError(errors.New("conn reset"))

	err := repo.Update(context.Background(), "u1", domain.UserUpdate{IsVerified: &verified})
	require.Error(t, err)
	require.Contains(t, err.Error(), "update user")
}

func TestPgUserRepository_UpdateSkipsVerifiedUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE users SET verification_expires = \$1, verification_token = \$2 WHERE id = \$3 AND is_verified = \$4`).
		WithArgs(expires, "fresh", "u1", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), "u1", domain.UserUpdate{
		Verification:     domain.IssueToken("fresh", expires),
		ExpectUnverified: true,
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
