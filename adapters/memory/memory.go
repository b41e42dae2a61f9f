// Package memory provides an in-process Storage, used for development and
// tests. Every value handed in or out is copied so callers never share
// state with the store.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/cinemahub/core"
)

type Storage struct {
	mu       sync.RWMutex
	accounts map[string]*core.Account // key: username
	movies   map[string]*core.Movie   // key: id
	order    []string                 // movie ids in insertion order

	now func() time.Time
}

var _ core.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		accounts: make(map[string]*core.Account),
		movies:   make(map[string]*core.Movie),
		now:      time.Now,
	}
}

// ============================================
// ACCOUNTS
// ============================================

func (s *Storage) CreateAccount(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.Username]; exists {
		return core.ErrAccountExists
	}

	now := s.now()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.FavoriteMovies == nil {
		a.FavoriteMovies = []string{}
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	s.accounts[a.Username] = copyAccount(a)
	return nil
}

func (s *Storage) GetAccountByUsername(_ context.Context, username string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (s *Storage) UpdateAccount(_ context.Context, username string, u core.AccountUpdate) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	if u.Username != username {
		if _, taken := s.accounts[u.Username]; taken {
			return nil, core.ErrAccountExists
		}
	}

	updated := copyAccount(a)
	updated.Username = u.Username
	updated.Email = u.Email
	updated.Birthday = copyTime(u.Birthday)
	if u.PasswordHash != nil {
		updated.PasswordHash = *u.PasswordHash
	}
	updated.UpdatedAt = s.now()

	delete(s.accounts, username)
	s.accounts[updated.Username] = updated
	return copyAccount(updated), nil
}

func (s *Storage) DeleteAccount(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; !ok {
		return core.ErrAccountNotFound
	}
	delete(s.accounts, username)
	return nil
}

func (s *Storage) AddFavorite(_ context.Context, username, movieID string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	if !slices.Contains(a.FavoriteMovies, movieID) {
		a.FavoriteMovies = append(a.FavoriteMovies, movieID)
		a.UpdatedAt = s.now()
	}
	return copyAccount(a), nil
}

func (s *Storage) RemoveFavorite(_ context.Context, username, movieID string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	if slices.Contains(a.FavoriteMovies, movieID) {
		a.FavoriteMovies = slices.DeleteFunc(a.FavoriteMovies, func(id string) bool { return id == movieID })
		a.UpdatedAt = s.now()
	}
	return copyAccount(a), nil
}

// ============================================
// MOVIES
// ============================================

func (s *Storage) ListMovies(_ context.Context) ([]*core.Movie, error) {
	return s.filter(func(*core.Movie) bool { return true }), nil
}

func (s *Storage) GetMovieByTitle(_ context.Context, title string) (*core.Movie, error) {
	found := s.filter(func(m *core.Movie) bool { return m.Title == title })
	if len(found) == 0 {
		return nil, core.ErrMovieNotFound
	}
	return found[0], nil
}

func (s *Storage) ListMoviesByGenre(_ context.Context, genre string) ([]*core.Movie, error) {
	return s.filter(func(m *core.Movie) bool { return m.Genre.Name == genre }), nil
}

func (s *Storage) ListMoviesByDirector(_ context.Context, director string) ([]*core.Movie, error) {
	return s.filter(func(m *core.Movie) bool { return m.Director.Name == director }), nil
}

func (s *Storage) GetMoviesByIDs(_ context.Context, ids []string) ([]*core.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]*core.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			movies = append(movies, copyMovie(m))
		}
	}
	return movies, nil
}

// UpsertMovie inserts m or replaces the movie with the same id. An empty id
// is assigned a new uuid.
func (s *Storage) UpsertMovie(_ context.Context, m *core.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, exists := s.movies[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	s.movies[m.ID] = copyMovie(m)
	return nil
}

func (s *Storage) filter(keep func(*core.Movie) bool) []*core.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]*core.Movie, 0)
	for _, id := range s.order {
		if m := s.movies[id]; keep(m) {
			movies = append(movies, copyMovie(m))
		}
	}
	return movies
}

func copyAccount(a *core.Account) *core.Account {
	c := *a
	c.FavoriteMovies = slices.Clone(a.FavoriteMovies)
	if c.FavoriteMovies == nil {
		c.FavoriteMovies = []string{}
	}
	c.Birthday = copyTime(a.Birthday)
	return &c
}

func copyMovie(m *core.Movie) *core.Movie {
	c := *m
	c.Actors = slices.Clone(m.Actors)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
