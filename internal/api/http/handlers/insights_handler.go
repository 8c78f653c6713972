package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propos/maintenance-engine/internal/auth"
	"github.com/propos/maintenance-engine/internal/insight"
	apperrors "github.com/propos/maintenance-engine/pkg/util"
)

// InsightsHandler serves aggregated reporting for managerial users.
type InsightsHandler struct {
	insights *insight.Service
}

// NewInsightsHandler constructs handler.
func NewInsightsHandler(insights *insight.Service) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// Summary GET /insights/summary.
func (h *InsightsHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	orgID := principal.OrganizationID()
	if orgID == "" {
		return apperrors.NewForbidden("no organization membership", nil)
	}

	summary, err := h.insights.OrganizationSummary(c.UserContext(), orgID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
