package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

// PasswordAuthenticator authenticates a username and password against the
// stored hash
type PasswordAuthenticator struct {
	accounts  core.AccountStorage
	passwords crypto.PasswordHandler

	dummyOnce sync.Once
	dummyHash string
}

var _ core.Authenticator = (*PasswordAuthenticator)(nil)

func NewPasswordAuthenticator(accounts core.AccountStorage, passwords crypto.PasswordHandler) *PasswordAuthenticator {
	return &PasswordAuthenticator{accounts: accounts, passwords: passwords}
}

// Verify returns the account when the password matches. Failures are
// ErrNoSuchUser or ErrBadPassword; callers at the API boundary must collapse
// both into ErrInvalidCredentials.
func (a *PasswordAuthenticator) Verify(ctx context.Context, username, password string) (*core.Account, error) {
	account, err := a.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			// Match the latency of a real password check.
			a.burn(password)
			return nil, core.ErrNoSuchUser
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	ok, err := a.passwords.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, core.ErrBadPassword
	}

	return account, nil
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, creds core.Credentials) (*core.Principal, error) {
	account, err := a.Verify(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	return &core.Principal{Username: account.Username}, nil
}

func (a *PasswordAuthenticator) burn(password string) {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = a.passwords.Hash("cinemahub-dummy-password")
	})
	if a.dummyHash != "" {
		_, _ = a.passwords.Verify(password, a.dummyHash)
	}
}

// BearerAuthenticator authenticates a bearer token. With accounts set, it
// also requires the token subject to still exist.
type BearerAuthenticator struct {
	tokens   core.TokenValidator
	accounts core.AccountStorage
}

var _ core.Authenticator = (*BearerAuthenticator)(nil)

// NewBearerAuthenticator builds a bearer authenticator. accounts may be nil,
// in which case authentication is purely stateless.
func NewBearerAuthenticator(tokens core.TokenValidator, accounts core.AccountStorage) *BearerAuthenticator {
	return &BearerAuthenticator{tokens: tokens, accounts: accounts}
}

func (b *BearerAuthenticator) Authenticate(ctx context.Context, creds core.Credentials) (*core.Principal, error) {
	if creds.Token == "" {
		return nil, core.ErrMissingAuthHeader
	}

	principal, err := b.tokens.Validate(creds.Token)
	if err != nil {
		return nil, err
	}

	if b.accounts != nil {
		if _, err := b.accounts.GetAccountByUsername(ctx, principal.Username); err != nil {
			if errors.Is(err, core.ErrAccountNotFound) {
				return nil, core.ErrUnknownSubject
			}
			return nil, fmt.Errorf("failed to find token subject: %w", err)
		}
	}

	return principal, nil
}
