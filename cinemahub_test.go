package cinemahub

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/cinemahub/adapters/memory"
	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

const testSecret = "secretshouldbeatleast32charslong"

// fakeHTTPAdapter records the services it was given
type fakeHTTPAdapter struct {
	services *Services
	err      error
}

func (f *fakeHTTPAdapter) RegisterRoutes(s Services) error {
	f.services = &s
	return f.err
}

func fastHasher() PasswordHandler {
	return &crypto.Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestNewShouldValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing secret",
			config:  Config{Storage: memory.New(), HTTP: &fakeHTTPAdapter{}},
			wantErr: ErrSecretRequired,
		},
		{
			name:    "short secret",
			config:  Config{Secret: "short", Storage: memory.New(), HTTP: &fakeHTTPAdapter{}},
			wantErr: ErrSecretTooShort,
		},
		{
			name:    "missing storage",
			config:  Config{Secret: testSecret, HTTP: &fakeHTTPAdapter{}},
			wantErr: ErrStorageRequired,
		},
		{
			name:    "missing http adapter",
			config:  Config{Secret: testSecret, Storage: memory.New()},
			wantErr: ErrHTTPAdapterRequired,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.config)
			assert.ErrorIs(t, err, test.wantErr)
		})
	}
}

func TestNewShouldReturnErrSecretTooShort(t *testing.T) {
	_, err := New(Config{Secret: "short", Storage: memory.New(), HTTP: &fakeHTTPAdapter{}})

	require.True(t, errors.Is(err, ErrSecretTooShort))
	assert.True(t, strings.Contains(err.Error(), "minimum of 32 characters"))
}

func TestNewShouldPropagateRouteErrors(t *testing.T) {
	boom := errors.New("route conflict")
	_, err := New(Config{Secret: testSecret, Storage: memory.New(), HTTP: &fakeHTTPAdapter{err: boom}})
	assert.ErrorIs(t, err, boom)
}

// Requirement: the wired services log in, authenticate and guard ownership end to end.
func TestNewShouldWireServices(t *testing.T) {
	// Arrange
	ctx := context.Background()
	adapter := &fakeHTTPAdapter{}
	app, err := New(Config{
		Secret:         testSecret,
		Storage:        memory.New(),
		HTTP:           adapter,
		PasswordHasher: fastHasher(),
	})
	require.NoError(t, err)
	require.NotNil(t, adapter.services)

	// Act
	_, err = app.Services.Auth.Register(ctx, core.RegisterInput{Username: "alice1", Password: "Secret123", Email: "alice@example.com"})
	require.NoError(t, err)
	result, err := app.Services.Auth.Login(ctx, core.LoginInput{Username: "alice1", Password: "Secret123"})
	require.NoError(t, err)
	principal, err := adapter.services.Authenticator.Authenticate(ctx, core.Credentials{Token: result.Token})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice1", principal.Username)
	assert.NoError(t, Authorize(principal, "alice1"))
	assert.ErrorIs(t, Authorize(principal, "bobby1"), ErrPermissionDenied)
}

func TestNewShouldCheckSubjectUnlessDisabled(t *testing.T) {
	ctx := context.Background()

	for _, disabled := range []bool{false, true} {
		app, err := New(Config{
			Secret:              testSecret,
			Storage:             memory.New(),
			HTTP:                &fakeHTTPAdapter{},
			PasswordHasher:      fastHasher(),
			DisableSubjectCheck: disabled,
		})
		require.NoError(t, err)

		token, _, err := app.Tokens.Issue("ghost1")
		require.NoError(t, err)
		_, err = app.Services.Authenticator.Authenticate(ctx, core.Credentials{Token: token})

		if disabled {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrUnknownSubject)
		}
	}
}

func TestNewShouldCacheCatalogUnlessDisabled(t *testing.T) {
	ctx := context.Background()

	for _, disabled := range []bool{false, true} {
		store := memory.New()
		app, err := New(Config{Secret: testSecret, Storage: store, HTTP: &fakeHTTPAdapter{}, DisableCache: disabled})
		require.NoError(t, err)

		_, err = app.Services.Movies.ListMovies(ctx)
		require.NoError(t, err)
		require.NoError(t, store.UpsertMovie(ctx, &Movie{ID: "m1", Title: "Heat"}))
		movies, err := app.Services.Movies.ListMovies(ctx)
		require.NoError(t, err)

		if disabled {
			assert.Len(t, movies, 1)
		} else {
			// The write bypassed the cache, so the cached empty listing is served
			assert.Empty(t, movies)
			require.NoError(t, app.Movies.UpsertMovie(ctx, &Movie{ID: "m2", Title: "Ran"}))
			movies, err = app.Services.Movies.ListMovies(ctx)
			require.NoError(t, err)
			assert.Len(t, movies, 2)
		}
	}
}
