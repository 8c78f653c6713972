package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/repository"
	"github.com/propos/maintenance-engine/internal/triage"
	apperrors "github.com/propos/maintenance-engine/pkg/util"
)

// TicketService is the lifecycle controller: it orchestrates the creation
// pipeline (resolve organization, persist, triage, classify, assign,
// escalate) and enforces field-level update authorization by role.
type TicketService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	directory   repository.DirectoryRepository
	assignment  *AssignmentService
	severity    *triage.Severity
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the lifecycle controller.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	DirectoryRepo  repository.DirectoryRepository
	Assignment     *AssignmentService
	Severity       *triage.Severity
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		technicians: deps.TechnicianRepo,
		directory:   deps.DirectoryRepo,
		assignment:  deps.Assignment,
		severity:    deps.Severity,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	UnitID      string
	Title       string
	Description string
	Priority    domain.TicketPriority
	ImagePath   *string
}

// TicketUpdateInput carries the fields of an update request. Nil means the
// field was absent from the request.
type TicketUpdateInput struct {
	Title           *string
	Description     *string
	Priority        *domain.TicketPriority
	Status          *domain.TicketStatus
	Category        *domain.Category
	AssignedTo      *string
	ResolutionNotes *string
}

// TicketListFilter describes listing parameters for authorized callers.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// CreateTicket runs the full creation pipeline. Only organization resolution
// and the initial persist can fail the operation; every later step degrades
// gracefully and the ticket is returned with whatever enrichment succeeded.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	unitCtx, err := s.directory.UnitContext(ctx, input.UnitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("could not determine organization from unit", map[string]any{"unit_id": input.UnitID})
		}
		return nil, apperrors.MapError(err)
	}

	var tenantID *string
	var orgID string
	source := domain.TicketSourceAdmin

	if actor.Role == domain.RoleTenant {
		tenant, err := s.directory.TenantByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("tenant profile not found", nil)
			}
			return nil, apperrors.MapError(err)
		}
		tenantID = &tenant.ID
		orgID = unitCtx.Organization
		source = domain.TicketSourceTenant
	} else {
		if actor.OrganizationID == nil {
			return nil, apperrors.NewValidationError("you must belong to an organization", nil)
		}
		orgID = *actor.OrganizationID
		if unitCtx.Organization != orgID {
			return nil, apperrors.NewForbidden("unit outside your organization", nil)
		}
	}

	ticket := &domain.Ticket{
		OrganizationID: orgID,
		UnitID:         input.UnitID,
		TenantID:       tenantID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Priority:       input.Priority,
		Status:         domain.TicketStatusOpen,
		Source:         source,
		Category:       domain.CategoryGeneral,
		ImagePath:      input.ImagePath,
	}
	if !domain.ValidPriority(ticket.Priority) {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketCreated, ticket.ID, userActor(actor), events.TicketCreatedPayload{
		OrganizationID: ticket.OrganizationID,
		UnitID:         ticket.UnitID,
		Priority:       ticket.Priority,
		Source:         ticket.Source,
		Title:          ticket.Title,
	})

	s.enrich(ctx, ticket, unitCtx, actor)
	return ticket, nil
}

// enrich runs the best-effort steps of the creation pipeline. Each step is
// isolated: a failure is logged and the remaining steps still run.
func (s *TicketService) enrich(ctx context.Context, ticket *domain.Ticket, unitCtx *domain.UnitContext, actor *domain.User) {
	imageApplied := false
	if ticket.ImagePath != nil && *ticket.ImagePath != "" {
		if verdict := s.severity.AnalyzeImage(ctx, *ticket.ImagePath); verdict != nil {
			triage.ApplyVerdict(ticket, verdict)
			imageApplied = true
		}
	}

	ticket.Category = triage.Classify(ticket.Title, ticket.Description)
	if !imageApplied {
		ticket.Priority = triage.TriageText(ticket.Title, ticket.Description)
	}

	if err := s.tickets.UpdateTriage(ctx, ticket); err != nil {
		s.logger.Warn("failed to persist triage results",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
	s.publish(ctx, events.EventTicketTriaged, ticket.ID, events.Actor{System: true}, events.TicketTriagedPayload{
		Priority:     ticket.Priority,
		Category:     ticket.Category,
		ImageApplied: imageApplied,
	})

	technician, err := s.assignment.Assign(ctx, ticket)
	if err != nil {
		s.logger.Warn("assignment failed, ticket left unassigned",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	if ticket.Priority.Rank() >= domain.TicketPriorityHigh.Rank() {
		payload := events.TicketEscalatedPayload{
			Title:        ticket.Title,
			Description:  ticket.Description,
			Priority:     ticket.Priority,
			Category:     ticket.Category,
			UnitNumber:   unitCtx.Unit.UnitNumber,
			PropertyName: unitCtx.PropertyName,
			Recipient:    actor.Email,
		}
		if technician != nil {
			payload.TechnicianID = &technician.ID
			payload.TechnicianName = technician.Name
		}
		s.publish(ctx, events.EventTicketEscalated, ticket.ID, events.Actor{System: true}, payload)
	}
}

// technicianEditableFields are the only fields the MAINTENANCE role may write,
// and only on tickets assigned to them.
var technicianEditableFields = map[string]struct{}{
	"status":           {},
	"resolution_notes": {},
}

// UpdateTicket applies an authorized update. Technicians may set only status
// and resolution notes on their own tickets; a request touching anything else
// is rejected wholesale with the full list of disallowed fields. Managerial
// staff may edit any field on tickets in their organization. Tenants may not
// update tickets at all. No transition table is enforced beyond value
// validation; authorized roles may move status freely.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	switch {
	case actor.Role == domain.RoleTenant:
		return nil, apperrors.NewForbidden("tenants cannot update tickets", nil)

	case actor.Role == domain.RoleMaintenance:
		technician, err := s.technicians.GetByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewForbidden("no technician profile", nil)
			}
			return nil, apperrors.MapError(err)
		}
		if ticket.AssignedTo == nil || *ticket.AssignedTo != technician.ID {
			return nil, apperrors.NewForbidden("ticket not assigned to you", nil)
		}
		if disallowed := disallowedFields(input); len(disallowed) > 0 {
			return nil, apperrors.NewForbidden(
				"technicians may only update status and resolution notes",
				map[string]any{"disallowed_fields": disallowed})
		}

	case actor.Role.IsManagerial():
		if actor.OrganizationID == nil || *actor.OrganizationID != ticket.OrganizationID {
			return nil, apperrors.NewForbidden("ticket outside your organization", nil)
		}

	default:
		return nil, apperrors.NewForbidden("insufficient role", nil)
	}

	oldStatus := ticket.Status
	if err := applyUpdate(ticket, input); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, events.EventTicketStatusChanged, ticket.ID, userActor(actor), events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		})
	}
	return ticket, nil
}

// disallowedFields lists the fields in the request a technician may not touch.
func disallowedFields(input TicketUpdateInput) []string {
	var fields []string
	if input.Title != nil {
		fields = append(fields, "title")
	}
	if input.Description != nil {
		fields = append(fields, "description")
	}
	if input.Priority != nil {
		fields = append(fields, "priority")
	}
	if input.Category != nil {
		fields = append(fields, "category")
	}
	if input.AssignedTo != nil {
		fields = append(fields, "assigned_to")
	}
	return fields
}

func applyUpdate(ticket *domain.Ticket, input TicketUpdateInput) error {
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.ResolutionNotes != nil {
		notes := strings.TrimSpace(*input.ResolutionNotes)
		ticket.ResolutionNotes = &notes
	}
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return apperrors.NewValidationError("invalid category", map[string]any{"category": *input.Category})
		}
		ticket.Category = *input.Category
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			ticket.AssignedTo = nil
		} else {
			ticket.AssignedTo = input.AssignedTo
		}
	}
	return nil
}

// GetTicket fetches a ticket visible to the actor: staff see their
// organization's tickets, tenants only their own.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.authorizeRead(ctx, actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the actor.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}

	if actor.Role == domain.RoleTenant {
		tenant, err := s.directory.TenantByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("tenant profile not found", nil)
			}
			return nil, apperrors.MapError(err)
		}
		repoFilter.TenantID = &tenant.ID
	} else {
		if actor.OrganizationID == nil {
			return nil, apperrors.NewValidationError("you must belong to an organization", nil)
		}
		repoFilter.OrganizationID = actor.OrganizationID
	}

	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) authorizeRead(ctx context.Context, actor *domain.User, ticket *domain.Ticket) error {
	if actor.Role == domain.RoleTenant {
		tenant, err := s.directory.TenantByUserID(ctx, actor.ID)
		if err != nil {
			return apperrors.NewForbidden("access denied", nil)
		}
		if ticket.TenantID == nil || *ticket.TenantID != tenant.ID {
			return apperrors.NewForbidden("access denied", nil)
		}
		return nil
	}
	if actor.OrganizationID == nil || *actor.OrganizationID != ticket.OrganizationID {
		return apperrors.NewForbidden("access denied", nil)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func userActor(user *domain.User) events.Actor {
	id := user.ID
	return events.Actor{Role: user.Role, UserID: &id}
}
