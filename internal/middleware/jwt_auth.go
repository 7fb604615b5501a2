package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// Context keys for storing user info
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	RolesKey    = "roles"
)

// VerifyToken validates the Bearer JWT and stores its claims in Locals.
func VerifyToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return deny(c, fiber.StatusUnauthorized, "Missing authorization token")
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &domain.ClubhouseClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return deny(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if claims.UserID == "" {
			return deny(c, fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(UsernameKey, claims.Username)
		c.Locals(RolesKey, claims.Roles)

		return c.Next()
	}
}

// AuthorizeRole checks if user has at least one of the required roles
func AuthorizeRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRoles, ok := c.Locals(RolesKey).([]string)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "No roles found in token")
		}

		for _, userRole := range userRoles {
			for _, allowedRole := range allowedRoles {
				if userRole == allowedRole {
					return c.Next()
				}
			}
		}

		return deny(c, fiber.StatusForbidden, "Insufficient permissions")
	}
}

// UserID returns the authenticated user's id, or "" outside VerifyToken.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	roles, _ := c.Locals(RolesKey).([]string)
	for _, r := range roles {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
