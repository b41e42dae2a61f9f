package fiber

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/cinemahub/core"
)

// publicErrors lists every error whose message may reach a client, by status
var publicErrors = []struct {
	status int
	errs   []error
}{
	{http.StatusUnauthorized, []error{
		core.ErrMissingAuthHeader,
		core.ErrInvalidAuthHeader,
		core.ErrTokenMalformed,
		core.ErrBadSignature,
		core.ErrTokenExpired,
		core.ErrUnknownSubject,
		core.ErrInvalidCredentials,
	}},
	{http.StatusForbidden, []error{core.ErrPermissionDenied}},
	{http.StatusNotFound, []error{core.ErrAccountNotFound, core.ErrMovieNotFound}},
	{http.StatusConflict, []error{core.ErrAccountExists}},
}

// mapError maps an error to its status code and the fixed message a client
// may see. Unknown errors are 500 with a generic message.
func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	for _, group := range publicErrors {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status, target.Error()
			}
		}
	}

	// Credential details never leave the server
	if errors.Is(err, core.ErrNoSuchUser) || errors.Is(err, core.ErrBadPassword) {
		return http.StatusUnauthorized, core.ErrInvalidCredentials.Error()
	}

	if errors.Is(err, core.ErrValidation) {
		return http.StatusUnprocessableEntity, core.ErrValidation.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

// mapErrorToStatus maps cinemahub error types to HTTP status codes
func mapErrorToStatus(err error) int {
	status, _ := mapError(err)
	return status
}

// handleError writes the JSON error response for err
func (a *Adapter) handleError(c fiber.Ctx, err error) error {
	return writeError(c, a.logger, err)
}

func writeError(c fiber.Ctx, logger *slog.Logger, err error) error {
	status, message := mapError(err)

	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(status).JSON(fiber.Map{"errors": verrs})
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Context(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ErrorHandler is a fiber.ErrorHandler rendering errors the same way as the
// route handlers
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return writeError(c, logger, err)
	}
}
