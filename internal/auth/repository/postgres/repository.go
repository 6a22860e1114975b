package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/prasetyow/token-service/internal/auth/domain"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// WithinTx runs fn inside one transaction: commit on success, rollback on
// error or panic. Panics are rethrown after the rollback.
func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetCredentialByEmail(ctx context.Context, email string) (*domain.UserCredential, error) {
	query := `
		SELECT id, email, password_hash
		FROM auth.users
		WHERE email = $1
		LIMIT 1;
	`
	row := r.tx.QueryRow(ctx, query, email)

	var cred domain.UserCredential
	if err := row.Scan(&cred.ID, &cred.Email, &cred.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get credential by email: %w", err)
	}

	return &cred, nil
}

func (r *txRepository) InsertRefreshToken(ctx context.Context, userID string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()

	query := `INSERT INTO auth.refresh_tokens (id, user_id, expires_at, created_at)
	          VALUES ($1, $2, $3, $4)`
	if _, err := r.tx.Exec(ctx, query, id, userID, expiresAt, time.Now()); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return id, nil
}
