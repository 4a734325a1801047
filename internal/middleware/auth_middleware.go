package middleware

import (
	"strings"

	"crew-exam/internal/domain"
	"crew-exam/internal/logger"
	"crew-exam/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	RoleKey             = "role"
)

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It validates the token using the provided AuthService and sets the user id and role in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "Token is invalid or expired")
		}
		if claims.TokenType != service.TokenTypeAccess {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: "Invalid token type: expected access, got " + claims.TokenType,
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, domain.Role(claims.Role))
		return c.Next()
	}
}

// RequireRole rejects callers whose token role is not one of roles. It must run after Protected.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		logger.Get().Warn("Role not allowed",
			zap.String("userID", UserID(c)),
			zap.String("role", string(role)),
			zap.String("path", c.Path()))
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Code:    string(domain.CodeForbidden),
			Message: "You do not have access to this resource",
			Status:  fiber.StatusForbidden,
		})
	}
}

// UserID returns the authenticated user id, or "" outside Protected routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

func Role(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(RoleKey).(domain.Role)
	return role
}

func IsAdmin(c *fiber.Ctx) bool {
	return Role(c) == domain.RoleAdmin
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}
