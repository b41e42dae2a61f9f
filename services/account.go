package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

// AccountService implements the operations a user performs on their own
// account. Ownership is checked before any of these are reached.
type AccountService struct {
	accounts  core.AccountStorage
	movies    core.MovieStorage
	passwords crypto.PasswordHandler
}

var _ core.AccountProvider = (*AccountService)(nil)

func NewAccountService(accounts core.AccountStorage, movies core.MovieStorage, passwords crypto.PasswordHandler) *AccountService {
	return &AccountService{
		accounts:  accounts,
		movies:    movies,
		passwords: passwords,
	}
}

func (s *AccountService) GetAccount(ctx context.Context, username string) (*core.Account, error) {
	return s.accounts.GetAccountByUsername(ctx, username)
}

// UpdateAccount replaces the profile fields. A non-empty password is hashed
// and replaces the stored one.
func (s *AccountService) UpdateAccount(ctx context.Context, username string, input core.UpdateInput) (*core.Account, error) {
	if err := core.ValidateUpdate(input); err != nil {
		return nil, err
	}
	birthday, _ := core.ParseBirthday(input.Birthday)

	update := core.AccountUpdate{
		Username: input.Username,
		Email:    input.Email,
		Birthday: birthday,
	}
	if input.Password != "" {
		hashed, err := s.passwords.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		update.PasswordHash = &hashed
	}

	return s.accounts.UpdateAccount(ctx, username, update)
}

func (s *AccountService) DeleteAccount(ctx context.Context, username string) error {
	return s.accounts.DeleteAccount(ctx, username)
}

// ListFavorites resolves the account's favorite ids to movies. Ids whose
// movie has since been removed are skipped.
func (s *AccountService) ListFavorites(ctx context.Context, username string) ([]*core.Movie, error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(account.FavoriteMovies) == 0 {
		return []*core.Movie{}, nil
	}

	movies, err := s.movies.GetMoviesByIDs(ctx, account.FavoriteMovies)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve favorites: %w", err)
	}
	return movies, nil
}

// AddFavorite adds movieID to the favorites. Adding an id that is already
// present leaves the list unchanged.
func (s *AccountService) AddFavorite(ctx context.Context, username, movieID string) (*core.Account, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	return s.accounts.AddFavorite(ctx, username, movieID)
}

// RemoveFavorite removes movieID from the favorites. Removing an absent id
// succeeds and returns the account unchanged.
func (s *AccountService) RemoveFavorite(ctx context.Context, username, movieID string) (*core.Account, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	return s.accounts.RemoveFavorite(ctx, username, movieID)
}

func validateMovieID(movieID string) error {
	if movieID == "" {
		return core.ValidationErrors{{Field: "MovieID", Message: "MovieID is required"}}
	}
	return nil
}

// MovieService serves read-only catalog queries
type MovieService struct {
	movies core.MovieStorage
}

var _ core.MovieProvider = (*MovieService)(nil)

func NewMovieService(movies core.MovieStorage) *MovieService {
	return &MovieService{movies: movies}
}

func (s *MovieService) ListMovies(ctx context.Context) ([]*core.Movie, error) {
	return s.movies.ListMovies(ctx)
}

func (s *MovieService) GetMovieByTitle(ctx context.Context, title string) (*core.Movie, error) {
	return s.movies.GetMovieByTitle(ctx, title)
}

// ListMoviesByGenre returns ErrMovieNotFound when no movie has the genre
func (s *MovieService) ListMoviesByGenre(ctx context.Context, genre string) ([]*core.Movie, error) {
	return nonEmpty(s.movies.ListMoviesByGenre(ctx, genre))
}

// ListMoviesByDirector returns ErrMovieNotFound when no movie has the director
func (s *MovieService) ListMoviesByDirector(ctx context.Context, director string) ([]*core.Movie, error) {
	return nonEmpty(s.movies.ListMoviesByDirector(ctx, director))
}

func nonEmpty(movies []*core.Movie, err error) ([]*core.Movie, error) {
	if err != nil {
		if errors.Is(err, core.ErrMovieNotFound) {
			return nil, core.ErrMovieNotFound
		}
		return nil, err
	}
	if len(movies) == 0 {
		return nil, core.ErrMovieNotFound
	}
	return movies, nil
}
