package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lborres/cinemahub/adapters/memory"
	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

// testPasswords is a cheap argon2id so tests stay fast
func testPasswords() crypto.PasswordHandler {
	return &crypto.Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *memory.Storage
	tokens   *TokenService
	auth     *AuthService
	accounts *AccountService
	movies   *MovieService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	passwords := testPasswords()
	tokens := NewTokenService(TokenConfig{Secret: testSecret})
	return &fixture{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(store, passwords, tokens, discardLogger()),
		accounts: NewAccountService(store, store, passwords),
		movies:   NewMovieService(store),
	}
}

func (f *fixture) register(t *testing.T, username, password string) *core.Account {
	t.Helper()
	account, err := f.auth.Register(context.Background(), core.RegisterInput{
		Username: username,
		Password: password,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return account
}

func (f *fixture) addMovie(t *testing.T, m *core.Movie) {
	t.Helper()
	require.NoError(t, f.store.UpsertMovie(context.Background(), m))
}

// failingAccounts returns err from every lookup
type failingAccounts struct {
	core.AccountStorage
	err error
}

func (f failingAccounts) GetAccountByUsername(context.Context, string) (*core.Account, error) {
	return nil, f.err
}
