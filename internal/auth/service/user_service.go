package service

import (
	"context"

	"github.com/prasetyow/token-service/internal/auth/domain"
	"github.com/prasetyow/token-service/internal/auth/dto"
	"github.com/prasetyow/token-service/internal/auth/password"
	autherror "github.com/prasetyow/token-service/internal/errors"
)

type UserService struct {
	store  domain.Store
	tokens TokenIssuer
}

func NewUserService(store domain.Store, tokens TokenIssuer) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Login authenticates the submitted credentials and issues a token pair. The
// credential read, password check, and refresh-token write share one
// transaction; the pair escapes only after the commit succeeds, and every
// failure path rolls back.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenPair, error) {
	var pair *dto.TokenPair

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		cred, err := tx.GetCredentialByEmail(ctx, input.Email)
		if err != nil {
			return err
		}

		// A missing row and a failed verification terminate identically so
		// callers cannot enumerate accounts.
		if cred == nil || !password.Verify(input.Password, cred.PasswordHash) {
			return autherror.ErrInvalidCredentials
		}

		pair, err = s.tokens.Issue(ctx, tx, cred.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}
