package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/repository"
	apperrors "github.com/propos/maintenance-engine/pkg/util"
)

// AssignmentService selects a technician for a triaged ticket.
type AssignmentService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:     deps.TicketRepo,
		technicians: deps.TechnicianRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Assign picks the least-busy qualifying technician through three fallback
// tiers: specialty match, GENERAL specialty, then any technician in the
// ticket's organization. Each tier re-reads the workload index so the
// decision uses fresh counts. Candidates arrive ordered workload ascending
// with technician id as the stable tie-break. When the organization has no
// technicians at all the ticket stays unassigned and no error is returned;
// lack of staff must never block ticket intake.
func (s *AssignmentService) Assign(ctx context.Context, ticket *domain.Ticket) (*domain.Technician, error) {
	type tier struct {
		n         int
		specialty *domain.Category
	}

	tiers := make([]tier, 0, 3)
	if ticket.Category != domain.CategoryGeneral {
		category := ticket.Category
		tiers = append(tiers, tier{n: 1, specialty: &category})
	}
	general := domain.CategoryGeneral
	tiers = append(tiers, tier{n: 2, specialty: &general})
	tiers = append(tiers, tier{n: 3, specialty: nil})

	for _, t := range tiers {
		candidates, err := s.technicians.Candidates(ctx, ticket.OrganizationID, t.specialty)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(candidates) == 0 {
			continue
		}

		pick := candidates[0]
		technicianID := pick.Technician.ID
		if err := s.tickets.UpdateAssignment(ctx, ticket.ID, &technicianID); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.AssignedTo = &technicianID

		s.logger.Info("ticket assigned",
			zap.String("ticket_id", ticket.ID),
			zap.String("technician_id", technicianID),
			zap.Int("tier", t.n),
			zap.Int("workload", pick.Active))
		s.publishAssigned(ctx, ticket, &pick.Technician, t.n)
		return &pick.Technician, nil
	}

	s.logger.Warn("no technician available, ticket left unassigned",
		zap.String("ticket_id", ticket.ID),
		zap.String("organization_id", ticket.OrganizationID))
	return nil, nil
}

func (s *AssignmentService) publishAssigned(ctx context.Context, ticket *domain.Ticket, technician *domain.Technician, tier int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticket.ID,
		Actor:     events.Actor{System: true},
		Timestamp: time.Now(),
		Payload: events.TicketAssignedPayload{
			TechnicianID: ticket.AssignedTo,
			Specialty:    technician.Specialty,
			Tier:         tier,
		},
	})
}
