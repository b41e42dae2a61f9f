package core

import (
	"context"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// AccountStorage defines account-related database operations.
//
// AddFavorite and RemoveFavorite must be applied atomically against a single
// record by the storage itself. Callers never read, modify and write back
// the favorites list.
type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	UpdateAccount(ctx context.Context, username string, u AccountUpdate) (*Account, error)
	DeleteAccount(ctx context.Context, username string) error

	// Favorites
	AddFavorite(ctx context.Context, username, movieID string) (*Account, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*Account, error)
}

// MovieStorage defines movie-related database operations
type MovieStorage interface {
	ListMovies(ctx context.Context) ([]*Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*Movie, error)
	ListMoviesByGenre(ctx context.Context, genre string) ([]*Movie, error)
	ListMoviesByDirector(ctx context.Context, director string) ([]*Movie, error)

	// GetMoviesByIDs returns the movies that exist, in the order of ids.
	GetMoviesByIDs(ctx context.Context, ids []string) ([]*Movie, error)

	UpsertMovie(ctx context.Context, m *Movie) error
}

type Storage interface {
	AccountStorage
	MovieStorage
}

// ============================================
// SERVICE PORTS (for HTTP adapters)
// ============================================

// AuthProvider provides registration and login for HTTP adapters
type AuthProvider interface {
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// AccountProvider provides the user-scoped operations. Every method assumes
// the caller already passed the ownership check.
type AccountProvider interface {
	GetAccount(ctx context.Context, username string) (*Account, error)
	UpdateAccount(ctx context.Context, username string, input UpdateInput) (*Account, error)
	DeleteAccount(ctx context.Context, username string) error

	ListFavorites(ctx context.Context, username string) ([]*Movie, error)
	AddFavorite(ctx context.Context, username, movieID string) (*Account, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*Account, error)
}

// MovieProvider provides catalog reads for HTTP adapters
type MovieProvider interface {
	ListMovies(ctx context.Context) ([]*Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*Movie, error)
	ListMoviesByGenre(ctx context.Context, genre string) ([]*Movie, error)
	ListMoviesByDirector(ctx context.Context, director string) ([]*Movie, error)
}

// TokenValidator turns a bearer token into a Principal without touching storage
type TokenValidator interface {
	Validate(token string) (*Principal, error)
}

// ============================================
// HTTP PORT
// ============================================

// Services bundles everything an HTTP adapter needs to serve the API
type Services struct {
	Auth          AuthProvider
	Accounts      AccountProvider
	Movies        MovieProvider
	Authenticator Authenticator
}

type HTTPAdapter interface {
	RegisterRoutes(s Services) error
}
