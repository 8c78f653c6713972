package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/propos/maintenance-engine/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles. With no
// roles given it only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff ensures the principal belongs to an organization's staff.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.StaffRoles...)
}
