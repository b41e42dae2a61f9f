package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/cinemahub/core"
)

const principalKey = "principal"

// requireAuth validates the bearer token and stores the Principal in the
// context for downstream handlers. Nothing past it runs without a valid token.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token, err := extractToken(c)
	if err != nil {
		return a.handleError(c, err)
	}

	principal, err := a.authenticator.Authenticate(c.Context(), core.Credentials{Token: token})
	if err != nil {
		return a.handleError(c, err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// requireOwner allows the request only when the principal is the account
// named in the path
func (a *Adapter) requireOwner(c fiber.Ctx) error {
	if err := core.Authorize(PrincipalFrom(c), param(c, "username")); err != nil {
		return a.handleError(c, err)
	}
	return c.Next()
}

// PrincipalFrom returns the Principal stored by the auth middleware, or nil
func PrincipalFrom(c fiber.Ctx) *core.Principal {
	principal, _ := c.Locals(principalKey).(*core.Principal)
	return principal
}

// extractToken reads the token from an "Authorization: Bearer <token>" header.
// The scheme is matched exactly.
func extractToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", core.ErrMissingAuthHeader
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", core.ErrInvalidAuthHeader
	}
	return token, nil
}
