package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherror "github.com/prasetyow/token-service/internal/errors"
	"github.com/prasetyow/token-service/internal/mocks"
)

func TestNewTokenService(t *testing.T) {
	ts := NewTokenService("secret-key", 30, 1440)

	assert.Equal(t, "secret-key", ts.SigningSecret)
	assert.Equal(t, 30*time.Minute, ts.AccessTokenExpiry)
	assert.Equal(t, 1440*time.Minute, ts.RefreshTokenExpiry)
	assert.NotNil(t, ts.now)
}

// decodeClaims parses a token without validating expiry, so fixed-clock
// tokens from the past can be inspected.
func decodeClaims(t *testing.T, tokenString, secret string) *Claims {
	t.Helper()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)

	return claims
}

func TestIssue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	ts := NewTokenService("secret-s", 30, 60)
	ts.now = func() time.Time { return time.Unix(1000, 0) }

	refreshExp := time.Unix(1000, 0).Add(60 * time.Minute)
	mockTx.EXPECT().
		InsertRefreshToken(gomock.Any(), "user-123", refreshExp).
		Return("3f1f0b0a-8f63-4f0e-9d15-1c7a3a9f9b01", nil)

	pair, err := ts.Issue(context.Background(), mockTx, "user-123")
	require.NoError(t, err)

	// exp = now + ttl_minutes*60
	assert.Equal(t, int64(1000+30*60), pair.AccessTokenExp)
	assert.Equal(t, int64(1000+60*60), pair.RefreshTokenExp)

	access := decodeClaims(t, pair.AccessToken, "secret-s")
	assert.Equal(t, "user-123", access.Subject)
	assert.Equal(t, "1000", access.IssuedAt)
	assert.Equal(t, "2800", access.Expiry)
	assert.Empty(t, access.TokenID)

	refresh := decodeClaims(t, pair.RefreshToken, "secret-s")
	assert.Equal(t, "user-123", refresh.Subject)
	assert.Equal(t, "1000", refresh.IssuedAt)
	assert.Equal(t, "4600", refresh.Expiry)
	assert.Equal(t, "3f1f0b0a-8f63-4f0e-9d15-1c7a3a9f9b01", refresh.TokenID)
}

func TestIssue_SignaturesAreReproducible(t *testing.T) {
	first, err := signAccessToken("user-123", "secret-s", 1000, 2800)
	require.NoError(t, err)
	second, err := signAccessToken("user-123", "secret-s", 1000, 2800)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssue_TwiceProducesDistinctRefreshTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	ts := NewTokenService("secret-s", 30, 60)
	ts.now = func() time.Time { return time.Unix(1000, 0) }

	gomock.InOrder(
		mockTx.EXPECT().InsertRefreshToken(gomock.Any(), "user-123", gomock.Any()).Return("jti-first", nil),
		mockTx.EXPECT().InsertRefreshToken(gomock.Any(), "user-123", gomock.Any()).Return("jti-second", nil),
	)

	first, err := ts.Issue(context.Background(), mockTx, "user-123")
	require.NoError(t, err)
	second, err := ts.Issue(context.Background(), mockTx, "user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t,
		decodeClaims(t, first.RefreshToken, "secret-s").TokenID,
		decodeClaims(t, second.RefreshToken, "secret-s").TokenID)
}

func TestIssue_InsertFailureAbortsIssuance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	ts := NewTokenService("secret-s", 30, 60)

	mockTx.EXPECT().
		InsertRefreshToken(gomock.Any(), "user-123", gomock.Any()).
		Return("", errors.New("insert failed"))

	pair, err := ts.Issue(context.Background(), mockTx, "user-123")
	assert.Error(t, err)
	assert.Nil(t, pair)
}

func TestIssue_EmptySigningSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No InsertRefreshToken expectation: access-token signing fails first,
	// so nothing must be written.
	mockTx := mocks.NewMockTx(ctrl)

	ts := NewTokenService("", 30, 60)

	pair, err := ts.Issue(context.Background(), mockTx, "user-123")
	assert.ErrorIs(t, err, autherror.ErrMissingSigningSecret)
	assert.Nil(t, pair)
}

func TestVerifyAccessToken(t *testing.T) {
	ts := NewTokenService("secret-s", 30, 60)

	now := time.Now().Unix()
	token, err := signAccessToken("user-123", "secret-s", now, now+300)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", 30, 60)
		_, err := other.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := ts.VerifyAccessToken(token + "x")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := signAccessToken("user-123", "secret-s", now-600, now-300)
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(expired)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.VerifyAccessToken("not.a.token")
		assert.Error(t, err)
	})
}
