package domain

//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks github.com/prasetyow/token-service/internal/auth/domain Store,Tx

import (
	"context"
	"time"
)

// Store opens transaction-scoped units of work. WithinTx begins a transaction,
// runs fn, commits on success and rolls back on error or panic.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the storage surface available inside one transaction.
type Tx interface {
	// GetCredentialByEmail returns (nil, nil) when no row matches.
	GetCredentialByEmail(ctx context.Context, email string) (*UserCredential, error)

	// InsertRefreshToken creates a refresh-token record and returns its
	// generated id.
	InsertRefreshToken(ctx context.Context, userID string, expiresAt time.Time) (string, error)
}
