package cache

import (
	"context"
	"slices"

	"github.com/lborres/cinemahub/core"
)

// MovieStorage caches catalog reads in front of another MovieStorage. The
// catalog only changes through UpsertMovie, which clears the cache.
type MovieStorage struct {
	core.MovieStorage
	lists  *InMemoryCache[[]*core.Movie]
	titles *InMemoryCache[*core.Movie]
}

var _ core.MovieStorage = (*MovieStorage)(nil)

func NewMovieStorage(next core.MovieStorage, config core.CacheConfig) *MovieStorage {
	return &MovieStorage{
		MovieStorage: next,
		lists:        NewInMemoryCache[[]*core.Movie](config),
		titles:       NewInMemoryCache[*core.Movie](config),
	}
}

func (m *MovieStorage) ListMovies(ctx context.Context) ([]*core.Movie, error) {
	return m.list("all", func() ([]*core.Movie, error) {
		return m.MovieStorage.ListMovies(ctx)
	})
}

func (m *MovieStorage) ListMoviesByGenre(ctx context.Context, genre string) ([]*core.Movie, error) {
	return m.list("genre:"+genre, func() ([]*core.Movie, error) {
		return m.MovieStorage.ListMoviesByGenre(ctx, genre)
	})
}

func (m *MovieStorage) ListMoviesByDirector(ctx context.Context, director string) ([]*core.Movie, error) {
	return m.list("director:"+director, func() ([]*core.Movie, error) {
		return m.MovieStorage.ListMoviesByDirector(ctx, director)
	})
}

// GetMovieByTitle caches hits only; a missing title is looked up every time
func (m *MovieStorage) GetMovieByTitle(ctx context.Context, title string) (*core.Movie, error) {
	if movie, err := m.titles.Get(title); err == nil {
		return copyMovie(movie), nil
	}

	movie, err := m.MovieStorage.GetMovieByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	m.titles.Set(title, copyMovie(movie))
	return movie, nil
}

func (m *MovieStorage) UpsertMovie(ctx context.Context, movie *core.Movie) error {
	if err := m.MovieStorage.UpsertMovie(ctx, movie); err != nil {
		return err
	}
	m.Clear()
	return nil
}

func (m *MovieStorage) Clear() {
	m.lists.Clear()
	m.titles.Clear()
}

// Stats merges the counters of both caches
func (m *MovieStorage) Stats() core.CacheStats {
	l, t := m.lists.Stats(), m.titles.Stats()
	return core.CacheStats{
		Hits:      l.Hits + t.Hits,
		Misses:    l.Misses + t.Misses,
		Sets:      l.Sets + t.Sets,
		Deletes:   l.Deletes + t.Deletes,
		Evictions: l.Evictions + t.Evictions,
		Size:      l.Size + t.Size,
		TTL:       l.TTL,
	}
}

func (m *MovieStorage) list(key string, load func() ([]*core.Movie, error)) ([]*core.Movie, error) {
	if movies, err := m.lists.Get(key); err == nil {
		return copyMovies(movies), nil
	}

	movies, err := load()
	if err != nil {
		return nil, err
	}
	m.lists.Set(key, copyMovies(movies))
	return movies, nil
}

func copyMovies(movies []*core.Movie) []*core.Movie {
	out := make([]*core.Movie, len(movies))
	for i, movie := range movies {
		out[i] = copyMovie(movie)
	}
	return out
}

func copyMovie(movie *core.Movie) *core.Movie {
	c := *movie
	c.Actors = slices.Clone(movie.Actors)
	return &c
}

