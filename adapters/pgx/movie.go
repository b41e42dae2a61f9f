package pgx

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lborres/cinemahub/core"
)

const movieColumns = `m.id, m.title, m.description, m.genre_name, m.genre_description,
	m.director_name, m.director_bio, m.director_birth, m.director_death, m.actors, m.image_path, m.featured`

func scanMovie(row pgx.Row) (*core.Movie, error) {
	m := &core.Movie{}
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Genre.Name, &m.Genre.Description,
		&m.Director.Name, &m.Director.Bio, &m.Director.Birth, &m.Director.Death, &m.Actors, &m.ImagePath, &m.Featured,
	)
	if err != nil {
		return nil, err
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return m, nil
}

func (a *Adapter) queryMovies(ctx context.Context, query string, args ...any) ([]*core.Movie, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, core.ErrMovieNotFound)
	}
	defer rows.Close()

	movies := make([]*core.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, storeError(err, core.ErrMovieNotFound)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, core.ErrMovieNotFound)
	}
	return movies, nil
}

func (a *Adapter) ListMovies(ctx context.Context) ([]*core.Movie, error) {
	return a.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies m ORDER BY m.created_at, m.id`)
}

func (a *Adapter) GetMovieByTitle(ctx context.Context, title string) (*core.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.title = $1 ORDER BY m.created_at LIMIT 1`

	m, err := scanMovie(a.pool.QueryRow(ctx, query, title))
	if err != nil {
		return nil, storeError(err, core.ErrMovieNotFound)
	}
	return m, nil
}

func (a *Adapter) ListMoviesByGenre(ctx context.Context, genre string) ([]*core.Movie, error) {
	return a.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.genre_name = $1 ORDER BY m.created_at, m.id`, genre)
}

func (a *Adapter) ListMoviesByDirector(ctx context.Context, director string) ([]*core.Movie, error) {
	return a.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.director_name = $1 ORDER BY m.created_at, m.id`, director)
}

func (a *Adapter) GetMoviesByIDs(ctx context.Context, ids []string) ([]*core.Movie, error) {
	if len(ids) == 0 {
		return []*core.Movie{}, nil
	}
	query := `SELECT ` + movieColumns + `
	          FROM unnest($1::text[]) WITH ORDINALITY AS f(id, ord)
	          JOIN movies m ON m.id = f.id
	          ORDER BY f.ord`
	return a.queryMovies(ctx, query, ids)
}

func (a *Adapter) UpsertMovie(ctx context.Context, m *core.Movie) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	actors := m.Actors
	if actors == nil {
		actors = []string{}
	}

	query := `INSERT INTO movies (id, title, description, genre_name, genre_description,
	              director_name, director_bio, director_birth, director_death, actors, image_path, featured)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (id) DO UPDATE SET
	              title = EXCLUDED.title,
	              description = EXCLUDED.description,
	              genre_name = EXCLUDED.genre_name,
	              genre_description = EXCLUDED.genre_description,
	              director_name = EXCLUDED.director_name,
	              director_bio = EXCLUDED.director_bio,
	              director_birth = EXCLUDED.director_birth,
	              director_death = EXCLUDED.director_death,
	              actors = EXCLUDED.actors,
	              image_path = EXCLUDED.image_path,
	              featured = EXCLUDED.featured`

	_, err := a.pool.Exec(ctx, query,
		m.ID, m.Title, m.Description, m.Genre.Name, m.Genre.Description,
		m.Director.Name, m.Director.Bio, m.Director.Birth, m.Director.Death, actors, m.ImagePath, m.Featured,
	)
	if err != nil {
		return storeError(err, core.ErrMovieNotFound)
	}
	return nil
}
