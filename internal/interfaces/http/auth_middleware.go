package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/pkg/jwt"
)

// Locals keys para UserID y UserName en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
)

// RevocationChecker consulta la lista de access tokens revocados (logout).
type RevocationChecker interface {
	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware valida el Bearer Token de acceso, rechaza los revocados y carga UserID y UserName.
// revoked puede ser nil.
func AuthMiddleware(accessSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header is required")
		}
		// fasthttp recorta los espacios finales: "Bearer   " llega como "Bearer".
		if strings.EqualFold(authHeader, "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "empty token")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "format: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "empty token")
		}
		claims, err := jwt.Parse(accessSecret, tokenString, jwt.TokenAccess)
		if err != nil {
			return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
		}
		if revoked != nil {
			isRevoked, err := revoked.IsAccessRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return writeError(c, err)
			}
			if isRevoked {
				return respondError(c, fiber.StatusUnauthorized, "REVOKED_TOKEN", "token has been revoked")
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Username)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUserName devuelve el nombre de usuario del token.
func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserName).(string)
	return s
}
