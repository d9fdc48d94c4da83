package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrivision/backend/internal/core/usecases"
)

const claimsKey = "authclaims"

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(auth *usecases.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return errUnauthorized(c, "missing bearer token")
		}
		claims, err := auth.Verify(token)
		if err != nil {
			return errUnauthorized(c, "invalid or expired token")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware attaches claims when a valid token is present but
// lets anonymous requests through. Write endpoints use it so data can be
// scoped to a user without making every call require an account.
func OptionalAuthMiddleware(auth *usecases.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.Verify(token); err == nil {
				c.Locals(claimsKey, claims)
			}
		}
		return c.Next()
	}
}

// ClaimsFromCtx returns the verified claims, or nil for anonymous requests.
func ClaimsFromCtx(c *fiber.Ctx) *usecases.Claims {
	claims, _ := c.Locals(claimsKey).(*usecases.Claims)
	return claims
}

func userIDFromCtx(c *fiber.Ctx) string {
	if claims := ClaimsFromCtx(c); claims != nil {
		return claims.UserID
	}
	return ""
}
