package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lborres/cinemahub/config"
	"github.com/lborres/cinemahub/core"
)

// movieNamespace derives stable ids for movies listed without one, so
// seeding the same file twice updates rather than duplicates
var movieNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://cinemahub/movies"))

type seedDocument struct {
	Movies []seedMovie `yaml:"movies"`
}

type seedMovie struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Genre       seedGenre    `yaml:"genre"`
	Director    seedDirector `yaml:"director"`
	Actors      []string     `yaml:"actors"`
	ImagePath   string       `yaml:"image_path"`
	Featured    bool         `yaml:"featured"`
}

type seedGenre struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type seedDirector struct {
	Name  string `yaml:"name"`
	Bio   string `yaml:"bio"`
	Birth string `yaml:"birth"`
	Death string `yaml:"death"`
}

// parseMovies decodes a seed document. Every movie needs a title.
func parseMovies(data []byte) ([]*core.Movie, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	movies := make([]*core.Movie, 0, len(doc.Movies))
	for i, m := range doc.Movies {
		if m.Title == "" {
			return nil, fmt.Errorf("movie %d: title is required", i+1)
		}
		id := m.ID
		if id == "" {
			id = uuid.NewSHA1(movieNamespace, []byte(m.Title)).String()
		}
		movies = append(movies, &core.Movie{
			ID:          id,
			Title:       m.Title,
			Description: m.Description,
			Genre:       core.Genre{Name: m.Genre.Name, Description: m.Genre.Description},
			Director: core.Director{
				Name:  m.Director.Name,
				Bio:   m.Director.Bio,
				Birth: m.Director.Birth,
				Death: m.Director.Death,
			},
			Actors:    m.Actors,
			ImagePath: m.ImagePath,
			Featured:  m.Featured,
		})
	}
	return movies, nil
}

func seedFile(ctx context.Context, movies core.MovieStorage, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}

	parsed, err := parseMovies(data)
	if err != nil {
		return 0, err
	}

	for _, m := range parsed {
		if err := movies.UpsertMovie(ctx, m); err != nil {
			return 0, fmt.Errorf("saving %q: %w", m.Title, err)
		}
	}
	return len(parsed), nil
}

func runSeed(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: seed takes exactly one file", errUsage)
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := seedFile(ctx, store, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "seeded %d movies\n", n)
	return nil
}
