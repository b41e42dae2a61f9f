package cinemahub

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/cache"
	"github.com/lborres/cinemahub/pkg/crypto"
	"github.com/lborres/cinemahub/services"
)

// interfaces
type (
	Storage        = core.Storage
	AccountStorage = core.AccountStorage
	MovieStorage   = core.MovieStorage
	HTTPAdapter    = core.HTTPAdapter
	Authenticator  = core.Authenticator

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Account     = core.Account
	Movie       = core.Movie
	Genre       = core.Genre
	Director    = core.Director
	Principal   = core.Principal
	Services    = core.Services
	CacheConfig = core.CacheConfig
	CacheStats  = core.CacheStats
)

const (
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2      = crypto.NewArgon2
	NewBcrypt      = crypto.NewBcrypt
	GenerateSecret = crypto.GenerateSecret
	Authorize      = core.Authorize
)

var (
	ErrAccountExists      = core.ErrAccountExists
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrMovieNotFound      = core.ErrMovieNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrPermissionDenied   = core.ErrPermissionDenied
	ErrValidation         = core.ErrValidation
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidAuthHeader = core.ErrInvalidAuthHeader
	ErrTokenMalformed    = core.ErrTokenMalformed
	ErrBadSignature      = core.ErrBadSignature
	ErrTokenExpired      = core.ErrTokenExpired
	ErrUnknownSubject    = core.ErrUnknownSubject
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

type Config struct {
	// Secret signs bearer tokens. At least 32 characters.
	Secret string

	Storage Storage

	HTTP HTTPAdapter

	// Optional config
	PasswordHasher      PasswordHandler
	MaxConcurrentHashes int64
	TokenTTL            time.Duration
	Issuer              string

	// DisableSubjectCheck accepts any validly signed token, even when its
	// account has been deleted
	DisableSubjectCheck bool

	CatalogCache *CacheConfig
	DisableCache bool

	Logger *slog.Logger

	// Now overrides the token clock
	Now func() time.Time
}

// App holds the wired services
type App struct {
	Services Services

	Tokens    *services.TokenService
	Passwords PasswordHandler
	Movies    MovieStorage
}

func New(config Config) (*App, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewHasher(crypto.NewArgon2())
	}
	passwordHasher = crypto.NewThrottled(passwordHasher, config.MaxConcurrentHashes)

	var movies MovieStorage = config.Storage
	if !config.DisableCache {
		cacheConfig := config.CatalogCache
		if cacheConfig == nil {
			cacheConfig = &CacheConfig{
				TTL:     5 * time.Minute,
				MaxSize: 500,
			}
		}
		movies = cache.NewMovieStorage(config.Storage, *cacheConfig)
	}

	tokens := services.NewTokenService(services.TokenConfig{
		Secret: []byte(config.Secret),
		TTL:    config.TokenTTL,
		Issuer: config.Issuer,
		Now:    config.Now,
	})

	var subjects AccountStorage = config.Storage
	if config.DisableSubjectCheck {
		subjects = nil
	}

	app := &App{
		Services: Services{
			Auth:          services.NewAuthService(config.Storage, passwordHasher, tokens, logger),
			Accounts:      services.NewAccountService(config.Storage, movies, passwordHasher),
			Movies:        services.NewMovieService(movies),
			Authenticator: services.NewBearerAuthenticator(tokens, subjects),
		},
		Tokens:    tokens,
		Passwords: passwordHasher,
		Movies:    movies,
	}

	if err := config.HTTP.RegisterRoutes(app.Services); err != nil {
		return nil, err
	}

	return app, nil
}
