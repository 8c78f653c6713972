package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propos/maintenance-engine/internal/api/dto"
	"github.com/propos/maintenance-engine/internal/auth"
	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/repository"
	apperrors "github.com/propos/maintenance-engine/pkg/util"
)

// TechniciansHandler manages the technician roster endpoints.
type TechniciansHandler struct {
	technicians repository.TechnicianRepository
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicians repository.TechnicianRepository) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicians}
}

// ListTechnicians GET /technicians. Returns the organization's technicians
// with their live active-ticket counts, least loaded first.
func (h *TechniciansHandler) ListTechnicians(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	orgID := principal.OrganizationID()
	if orgID == "" {
		return apperrors.NewForbidden("no organization membership", nil)
	}

	var specialty *domain.Category
	if raw := c.Query("specialty"); raw != "" {
		cat := domain.Category(strings.ToUpper(strings.TrimSpace(raw)))
		if !domain.ValidCategory(cat) {
			return apperrors.NewValidationError("unknown specialty", map[string]any{"specialty": raw})
		}
		specialty = &cat
	}

	workloads, err := h.technicians.Candidates(c.UserContext(), orgID, specialty)
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]dto.TechnicianResponse, 0, len(workloads))
	for _, w := range workloads {
		items = append(items, dto.TechnicianResponse{
			ID:            w.Technician.ID,
			Name:          w.Technician.Name,
			Specialty:     w.Technician.Specialty,
			ActiveTickets: w.Active,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
