package core

import "time"

// Account represents a registered user of the catalog
//
// Username is the unique, case-sensitive key. FavoriteMovies holds movie ids
// in insertion order and never contains the same id twice.
type Account struct {
	ID             string     `json:"id"`
	Username       string     `json:"Username"`
	PasswordHash   string     `json:"-"` // Never expose in JSON
	Email          string     `json:"Email"`
	Birthday       *time.Time `json:"Birthday,omitempty"`
	FavoriteMovies []string   `json:"FavoriteMovies"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Movie is a catalog entry. Movies are read-only through the API.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	Actors      []string `json:"Actors"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured"`
}

type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type Director struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth string `json:"Birth,omitempty"`
	Death string `json:"Death,omitempty"`
}

// Principal is the identity derived from a validated bearer token.
// It is never persisted.
type Principal struct {
	Username  string    `json:"Username"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountUpdate carries the profile fields replaced by an update.
// A nil PasswordHash keeps the stored hash.
type AccountUpdate struct {
	Username     string
	Email        string
	Birthday     *time.Time
	PasswordHash *string
}
