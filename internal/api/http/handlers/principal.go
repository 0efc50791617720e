package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/monuchauhan/nios-elearning/internal/auth"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

// userID returns the authenticated user's id, or "" for anonymous callers.
func userID(c *fiber.Ctx) string {
	if p, ok := auth.PrincipalFromContext(c); ok {
		return p.UserID
	}
	return ""
}

func requireUserID(c *fiber.Ctx) (string, error) {
	id := userID(c)
	if id == "" {
		return "", apperrors.NewUnauthorized("access token required")
	}
	return id, nil
}
