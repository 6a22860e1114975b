package domain

import "time"

// UserCredential is the stored login material for a user. The table is owned
// by the user-management side; this service only reads it.
type UserCredential struct {
	ID           string
	Email        string
	PasswordHash string
}

// RefreshTokenRecord is the durable anchor of an issued refresh token. Its ID
// becomes the token's jti claim. Records are created once per issuance and
// never mutated here.
type RefreshTokenRecord struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
