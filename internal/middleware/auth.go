// Package middleware provides authentication, logging, metrics, and
// rate-limiting middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"studyhall/internal/config"
	"studyhall/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// CallerIdentity extracts the authenticated caller from Fiber locals.
// A zero userID means anonymous.
func CallerIdentity(c *fiber.Ctx) (uint, models.Role) {
	var userID uint
	if uid, ok := c.Locals("userID").(uint); ok {
		userID = uid
	}
	role := models.RoleUser
	if r, ok := c.Locals("userRole").(models.Role); ok {
		role = r
	}
	return userID, role
}

// parseToken validates a bearer token and returns the caller's ID and role.
// The token is issued by the identity collaborator; its claims are trusted
// here and not re-verified against the database.
func parseToken(tokenString string) (uint, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	subClaim, ok := claims["sub"]
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject type")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	role := models.RoleUser
	if roleClaim, ok := claims["role"].(string); ok && models.Role(roleClaim).Valid() {
		role = models.Role(roleClaim)
	}

	return uint(userID), role, nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization header required"))
	}

	userID, role, err := parseToken(token)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)
	return c.Next()
}

// OptionalAuth populates caller identity when a valid token is present but
// lets anonymous requests through. Read paths use it so the visibility
// resolver can distinguish author/admin viewers.
func OptionalAuth(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}
	userID, role, err := parseToken(token)
	if err == nil {
		c.Locals("userID", userID)
		c.Locals("userRole", role)
	}
	return c.Next()
}

// AdminRequired enforces that the authenticated caller has the admin role.
// It must run after AuthRequired.
func AdminRequired(c *fiber.Ctx) error {
	_, role := CallerIdentity(c)
	if role != models.RoleAdmin {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin privileges required"))
	}
	return c.Next()
}
