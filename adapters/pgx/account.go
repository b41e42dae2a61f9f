package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/cinemahub/core"
)

const accountColumns = `id::text, username, password_hash, email, birthday, favorite_movies, created_at, updated_at`

func scanAccount(row pgx.Row) (*core.Account, error) {
	acc := &core.Account{}
	err := row.Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Email, &acc.Birthday, &acc.FavoriteMovies, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if acc.FavoriteMovies == nil {
		acc.FavoriteMovies = []string{}
	}
	return acc, nil
}

func (a *Adapter) CreateAccount(ctx context.Context, acc *core.Account) error {
	query := `INSERT INTO accounts (username, password_hash, email, birthday)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + accountColumns

	created, err := scanAccount(a.pool.QueryRow(ctx, query, acc.Username, acc.PasswordHash, acc.Email, acc.Birthday))
	if err != nil {
		return storeError(err, core.ErrAccountNotFound)
	}

	*acc = *created
	return nil
}

func (a *Adapter) GetAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	acc, err := scanAccount(a.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, storeError(err, core.ErrAccountNotFound)
	}
	return acc, nil
}

func (a *Adapter) UpdateAccount(ctx context.Context, username string, u core.AccountUpdate) (*core.Account, error) {
	query := `UPDATE accounts
	          SET username = $2, email = $3, birthday = $4, password_hash = COALESCE($5, password_hash), updated_at = now()
	          WHERE username = $1
	          RETURNING ` + accountColumns

	acc, err := scanAccount(a.pool.QueryRow(ctx, query, username, u.Username, u.Email, u.Birthday, u.PasswordHash))
	if err != nil {
		return nil, storeError(err, core.ErrAccountNotFound)
	}
	return acc, nil
}

func (a *Adapter) DeleteAccount(ctx context.Context, username string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM accounts WHERE username = $1`, username)
	if err != nil {
		return storeError(err, core.ErrAccountNotFound)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

// AddFavorite appends movieID in a single statement unless it is already
// present
func (a *Adapter) AddFavorite(ctx context.Context, username, movieID string) (*core.Account, error) {
	query := `UPDATE accounts
	          SET favorite_movies = CASE
	                  WHEN $2::text = ANY(favorite_movies) THEN favorite_movies
	                  ELSE array_append(favorite_movies, $2::text)
	              END,
	              updated_at = now()
	          WHERE username = $1
	          RETURNING ` + accountColumns

	acc, err := scanAccount(a.pool.QueryRow(ctx, query, username, movieID))
	if err != nil {
		return nil, storeError(err, core.ErrAccountNotFound)
	}
	return acc, nil
}

func (a *Adapter) RemoveFavorite(ctx context.Context, username, movieID string) (*core.Account, error) {
	query := `UPDATE accounts
	          SET favorite_movies = array_remove(favorite_movies, $2::text), updated_at = now()
	          WHERE username = $1
	          RETURNING ` + accountColumns

	acc, err := scanAccount(a.pool.QueryRow(ctx, query, username, movieID))
	if err != nil {
		return nil, storeError(err, core.ErrAccountNotFound)
	}
	return acc, nil
}
