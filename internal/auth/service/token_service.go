package service

//go:generate mockgen -destination=../../mocks/mock_token_issuer.go -package=mocks github.com/prasetyow/token-service/internal/auth/service TokenIssuer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasetyow/token-service/internal/auth/domain"
	"github.com/prasetyow/token-service/internal/auth/dto"
	autherror "github.com/prasetyow/token-service/internal/errors"
)

// TokenIssuer produces a signed access/refresh pair for an authenticated user
// inside the caller's transaction.
type TokenIssuer interface {
	Issue(ctx context.Context, tx domain.Tx, userID string) (*dto.TokenPair, error)
}

type TokenService struct {
	SigningSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	now func() time.Time
}

func NewTokenService(signingSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		SigningSecret:      signingSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		now:                time.Now,
	}
}

// Claims is the wire claim set. Timestamps travel as decimal strings and ids
// as UUID strings; the fixed field order keeps signatures reproducible for
// identical inputs.
type Claims struct {
	Subject  string `json:"sub"`
	IssuedAt string `json:"iat"`
	Expiry   string `json:"exp"`
	TokenID  string `json:"jti,omitempty"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return numericDate(c.Expiry) }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return numericDate(c.IssuedAt) }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.Subject, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func numericDate(s string) (*jwt.NumericDate, error) {
	if s == "" {
		return nil, nil
	}

	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("claim is not a decimal timestamp: %w", err)
	}

	return jwt.NewNumericDate(time.Unix(ts, 0)), nil
}

// Issue signs an access token and a refresh token computed from a single
// instant. The refresh-token record is inserted before the refresh token is
// signed, since its generated id becomes the jti claim. Any storage or
// signing failure aborts the whole issuance.
func (ts *TokenService) Issue(ctx context.Context, tx domain.Tx, userID string) (*dto.TokenPair, error) {
	now := ts.now()
	accessExp := now.Add(ts.AccessTokenExpiry)
	refreshExp := now.Add(ts.RefreshTokenExpiry)

	accessToken, err := signAccessToken(userID, ts.SigningSecret, now.Unix(), accessExp.Unix())
	if err != nil {
		return nil, err
	}

	refreshToken, err := signRefreshToken(ctx, tx, userID, ts.SigningSecret, now.Unix(), refreshExp)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessTokenExp:  accessExp.Unix(),
		RefreshTokenExp: refreshExp.Unix(),
	}, nil
}

func signAccessToken(userID, signingSecret string, now, exp int64) (string, error) {
	return signClaims(Claims{
		Subject:  userID,
		IssuedAt: strconv.FormatInt(now, 10),
		Expiry:   strconv.FormatInt(exp, 10),
	}, signingSecret)
}

func signRefreshToken(ctx context.Context, tx domain.Tx, userID, signingSecret string, now int64, exp time.Time) (string, error) {
	jti, err := tx.InsertRefreshToken(ctx, userID, exp)
	if err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return signClaims(Claims{
		Subject:  userID,
		IssuedAt: strconv.FormatInt(now, 10),
		Expiry:   strconv.FormatInt(exp.Unix(), 10),
		TokenID:  jti,
	}, signingSecret)
}

func signClaims(claims Claims, signingSecret string) (string, error) {
	if signingSecret == "" {
		return "", autherror.ErrMissingSigningSecret
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.SigningSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
