package repository

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"crowdfund/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (domain.User, error)
	GetByResetToken(ctx context.Context, token string) (domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) error
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	db      DBTX
	builder squirrel.StatementBuilderType
}

func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = `id, email, password_hash, is_verified, verification_token, verification_expires, reset_token, reset_expires, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, is_verified, verification_token, verification_expires, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		nullableString(user.VerificationToken),
		nullableTime(user.VerificationExpires),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *PgUserRepository) GetByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrNotFound
	}
	return r.getOne(ctx, "verification_token", token)
}

func (r *PgUserRepository) GetByResetToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrNotFound
	}
	return r.getOne(ctx, "reset_token", token)
}

func (r *PgUserRepository) getOne(ctx context.Context, column, value string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var (
		u                 domain.User
		verificationToken *string
		resetToken        *string
	)
	err := r.db.QueryRow(ctx, query, value).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.IsVerified,
		&verificationToken,
		&u.VerificationExpires,
		&resetToken,
		&u.ResetExpires,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, translate(err)
	}
	if verificationToken != nil {
		u.VerificationToken = *verificationToken
	}
	if resetToken != nil {
		u.ResetToken = *resetToken
	}
	return u, nil
}

// Update aplica todos los cambios en una sola sentencia UPDATE.
// Devuelve ErrNotFound si ninguna fila coincide, incluido el caso en que el
// token esperado ya fue consumido por otra peticion.
func (r *PgUserRepository) Update(ctx context.Context, id string, update domain.UserUpdate) error {
	if update.Empty() {
		return nil
	}

	set := map[string]any{}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.IsVerified != nil {
		set["is_verified"] = *update.IsVerified
	}
	if update.Verification != nil {
		token, expires := tokenColumns(*update.Verification)
		set["verification_token"] = token
		set["verification_expires"] = expires
	}
	if update.Reset != nil {
		token, expires := tokenColumns(*update.Reset)
		set["reset_token"] = token
		set["reset_expires"] = expires
	}

	where := squirrel.Eq{"id": id}
	if update.ExpectVerificationToken != "" {
		where["verification_token"] = update.ExpectVerificationToken
	}
	if update.ExpectResetToken != "" {
		where["reset_token"] = update.ExpectResetToken
	}
	if update.ExpectUnverified {
		where["is_verified"] = false
	}

	stmt, args, err := r.builder.Update("users").SetMap(set).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func tokenColumns(change domain.TokenChange) (any, any) {
	if change.IsClear() {
		return nil, nil
	}
	return change.Token, change.ExpiresAt.UTC()
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}
