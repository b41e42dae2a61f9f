package fiber

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"

	"github.com/lborres/cinemahub/core"
)

const DefaultMutationTimeout = 10 * time.Second

type Options struct {
	// StaticDir is served at /* when set
	StaticDir string

	// AllowedOrigins for CORS. Empty allows every origin.
	AllowedOrigins []string

	// MutationTimeout bounds writes, which run detached from the client
	MutationTimeout time.Duration

	Logger *slog.Logger

	// LogOutput receives request logs. Defaults to os.Stdout.
	LogOutput io.Writer
}

type Adapter struct {
	app             *fiber.App
	opts            Options
	logger          *slog.Logger
	mutationTimeout time.Duration

	auth          core.AuthProvider
	accounts      core.AccountProvider
	movies        core.MovieProvider
	authenticator core.Authenticator
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App, opts Options) *Adapter {
	a := &Adapter{
		app:             app,
		opts:            opts,
		logger:          opts.Logger,
		mutationTimeout: opts.MutationTimeout,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.mutationTimeout <= 0 {
		a.mutationTimeout = DefaultMutationTimeout
	}
	return a
}

func (a *Adapter) RegisterRoutes(s core.Services) error {
	a.auth = s.Auth
	a.accounts = s.Accounts
	a.movies = s.Movies
	a.authenticator = s.Authenticator

	output := a.opts.LogOutput
	if output == nil {
		output = os.Stdout
	}

	a.app.Use(recoverer.New())
	a.app.Use(requestid.New())
	a.app.Use(logger.New(logger.Config{
		Format:     logFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
		Stream:     output,
	}))
	a.app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(a.opts.AllowedOrigins),
		AllowHeaders: []string{fiber.HeaderAuthorization, fiber.HeaderContentType},
	}))

	// Public routes
	a.app.Get("/", a.welcome)
	a.app.Post("/login", a.login)
	a.app.Post("/users", a.register)

	// Catalog
	movies := a.app.Group("/movies")
	movies.Get("", a.requireAuth, a.listMovies)
	movies.Get("/title/:title", a.requireAuth, a.movieByTitle)
	movies.Get("/genre/:genre", a.requireAuth, a.moviesByGenre)
	movies.Get("/director/:director", a.requireAuth, a.moviesByDirector)

	// Owner-only routes
	users := a.app.Group("/users/:username")
	users.Get("", a.requireAuth, a.requireOwner, a.getAccount)
	users.Put("", a.requireAuth, a.requireOwner, a.updateAccount)
	users.Delete("", a.requireAuth, a.requireOwner, a.deleteAccount)
	users.Get("/movies", a.requireAuth, a.requireOwner, a.listFavorites)
	users.Post("/movies/:movieID", a.requireAuth, a.requireOwner, a.addFavorite)
	users.Delete("/movies/:movieID", a.requireAuth, a.requireOwner, a.removeFavorite)

	if a.opts.StaticDir != "" {
		a.app.Get("/*", static.New(a.opts.StaticDir))
	}

	return nil
}

// logFormat never includes the Authorization header or the request body
func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
