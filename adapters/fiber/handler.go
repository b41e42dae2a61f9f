package fiber

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/cinemahub/core"
)

func (a *Adapter) welcome(c fiber.Ctx) error {
	return c.SendString("Welcome to cinemahub!")
}

// ============================================
// AUTH
// ============================================

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}
	if err := core.ValidateLogin(input); err != nil {
		return a.handleError(c, err)
	}

	result, err := a.auth.Login(c.Context(), input)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) register(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}

	ctx, cancel := a.mutationContext(c)
	defer cancel()

	account, err := a.auth.Register(ctx, input)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(account)
}

// ============================================
// CATALOG
// ============================================

func (a *Adapter) listMovies(c fiber.Ctx) error {
	movies, err := a.movies.ListMovies(c.Context())
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(movies)
}

func (a *Adapter) movieByTitle(c fiber.Ctx) error {
	movie, err := a.movies.GetMovieByTitle(c.Context(), param(c, "title"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(movie)
}

func (a *Adapter) moviesByGenre(c fiber.Ctx) error {
	movies, err := a.movies.ListMoviesByGenre(c.Context(), param(c, "genre"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(movies)
}

func (a *Adapter) moviesByDirector(c fiber.Ctx) error {
	movies, err := a.movies.ListMoviesByDirector(c.Context(), param(c, "director"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(movies)
}

// ============================================
// ACCOUNT (owner only)
// ============================================

func (a *Adapter) getAccount(c fiber.Ctx) error {
	account, err := a.accounts.GetAccount(c.Context(), param(c, "username"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(account)
}

func (a *Adapter) updateAccount(c fiber.Ctx) error {
	var input core.UpdateInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}

	ctx, cancel := a.mutationContext(c)
	defer cancel()

	account, err := a.accounts.UpdateAccount(ctx, param(c, "username"), input)
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(account)
}

func (a *Adapter) deleteAccount(c fiber.Ctx) error {
	username := param(c, "username")

	ctx, cancel := a.mutationContext(c)
	defer cancel()

	if err := a.accounts.DeleteAccount(ctx, username); err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": username + " was deleted.",
	})
}

func (a *Adapter) listFavorites(c fiber.Ctx) error {
	movies, err := a.accounts.ListFavorites(c.Context(), param(c, "username"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(movies)
}

func (a *Adapter) addFavorite(c fiber.Ctx) error {
	ctx, cancel := a.mutationContext(c)
	defer cancel()

	account, err := a.accounts.AddFavorite(ctx, param(c, "username"), param(c, "movieID"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(account)
}

func (a *Adapter) removeFavorite(c fiber.Ctx) error {
	ctx, cancel := a.mutationContext(c)
	defer cancel()

	account, err := a.accounts.RemoveFavorite(ctx, param(c, "username"), param(c, "movieID"))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(account)
}

// mutationContext detaches writes from client cancellation so a disconnect
// never leaves a change half applied
func (a *Adapter) mutationContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Context()), a.mutationTimeout)
}

// param returns the unescaped route parameter
func param(c fiber.Ctx, name string) string {
	raw := c.Params(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}

func badRequest(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}
