package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/events"
)

func newAssignmentHarness(technicians ...domain.Technician) (*AssignmentService, *fakeTicketRepo, *recordingDispatcher) {
	ticketRepo := newFakeTicketRepo()
	technicianRepo := &fakeTechnicianRepo{tickets: ticketRepo, technicians: technicians}
	dispatcher := &recordingDispatcher{}
	svc := NewAssignmentService(AssignmentDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		Dispatcher:     dispatcher,
		Logger:         zap.NewNop(),
	})
	return svc, ticketRepo, dispatcher
}

func seedTicket(t *testing.T, repo *fakeTicketRepo, category domain.Category) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		OrganizationID: "org-1",
		UnitID:         "unit-1",
		Title:          "test",
		Priority:       domain.TicketPriorityMedium,
		Status:         domain.TicketStatusOpen,
		Source:         domain.TicketSourceTenant,
		Category:       category,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func tech(id string, specialty domain.Category) domain.Technician {
	return domain.Technician{ID: id, OrganizationID: "org-1", Name: "Tech " + id, Specialty: specialty}
}

func TestAssignPrefersSpecialtyMatch(t *testing.T) {
	svc, repo, dispatcher := newAssignmentHarness(
		tech("tech-general", domain.CategoryGeneral),
		tech("tech-plumber", domain.CategoryPlumbing),
	)
	ticket := seedTicket(t, repo, domain.CategoryPlumbing)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	require.Equal(t, "tech-plumber", assigned.ID)
	require.NotNil(t, ticket.AssignedTo)
	require.Equal(t, "tech-plumber", *ticket.AssignedTo)

	assignedEvents := dispatcher.ofType(events.EventTicketAssigned)
	require.Len(t, assignedEvents, 1)
	payload := assignedEvents[0].Payload.(events.TicketAssignedPayload)
	require.Equal(t, 1, payload.Tier)
}

func TestAssignFallsBackToGeneralist(t *testing.T) {
	svc, repo, dispatcher := newAssignmentHarness(
		tech("tech-general", domain.CategoryGeneral),
		tech("tech-plumber", domain.CategoryPlumbing),
	)
	ticket := seedTicket(t, repo, domain.CategoryElectrical)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	require.Equal(t, "tech-general", assigned.ID)

	payload := dispatcher.ofType(events.EventTicketAssigned)[0].Payload.(events.TicketAssignedPayload)
	require.Equal(t, 2, payload.Tier)
}

func TestAssignFallsBackToAnyTechnician(t *testing.T) {
	svc, repo, dispatcher := newAssignmentHarness(
		tech("tech-hvac", domain.CategoryHVAC),
	)
	ticket := seedTicket(t, repo, domain.CategoryPainting)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	require.Equal(t, "tech-hvac", assigned.ID)

	payload := dispatcher.ofType(events.EventTicketAssigned)[0].Payload.(events.TicketAssignedPayload)
	require.Equal(t, 3, payload.Tier)
}

func TestAssignGeneralTicketSkipsSpecialtyTier(t *testing.T) {
	svc, repo, dispatcher := newAssignmentHarness(
		tech("tech-general", domain.CategoryGeneral),
	)
	ticket := seedTicket(t, repo, domain.CategoryGeneral)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.NotNil(t, assigned)

	payload := dispatcher.ofType(events.EventTicketAssigned)[0].Payload.(events.TicketAssignedPayload)
	require.Equal(t, 2, payload.Tier)
}

func TestAssignPicksLeastBusy(t *testing.T) {
	svc, repo, _ := newAssignmentHarness(
		tech("tech-a", domain.CategoryPlumbing),
		tech("tech-b", domain.CategoryPlumbing),
	)

	// Give tech-a an active ticket so tech-b is the lighter choice.
	busy := seedTicket(t, repo, domain.CategoryPlumbing)
	busyID := "tech-a"
	require.NoError(t, repo.UpdateAssignment(context.Background(), busy.ID, &busyID))

	ticket := seedTicket(t, repo, domain.CategoryPlumbing)
	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.Equal(t, "tech-b", assigned.ID)
}

func TestAssignBreaksWorkloadTiesByID(t *testing.T) {
	svc, repo, _ := newAssignmentHarness(
		tech("tech-b", domain.CategoryPlumbing),
		tech("tech-a", domain.CategoryPlumbing),
	)
	ticket := seedTicket(t, repo, domain.CategoryPlumbing)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.Equal(t, "tech-a", assigned.ID)
}

func TestAssignBackToBackSpreadsLoad(t *testing.T) {
	svc, repo, _ := newAssignmentHarness(
		tech("tech-a", domain.CategoryElectrical),
		tech("tech-b", domain.CategoryElectrical),
	)

	first := seedTicket(t, repo, domain.CategoryElectrical)
	second := seedTicket(t, repo, domain.CategoryElectrical)

	firstPick, err := svc.Assign(context.Background(), first)
	require.NoError(t, err)
	secondPick, err := svc.Assign(context.Background(), second)
	require.NoError(t, err)

	require.NotEqual(t, firstPick.ID, secondPick.ID)
}

func TestAssignWorkloadDropsWhenTicketResolves(t *testing.T) {
	svc, repo, _ := newAssignmentHarness(
		tech("tech-a", domain.CategoryPlumbing),
		tech("tech-b", domain.CategoryPlumbing),
	)

	busy := seedTicket(t, repo, domain.CategoryPlumbing)
	busyID := "tech-a"
	require.NoError(t, repo.UpdateAssignment(context.Background(), busy.ID, &busyID))

	// Resolving the ticket removes it from the active count, so tech-a is
	// level with tech-b again and wins on the id tie-break.
	stored, err := repo.GetByID(context.Background(), busy.ID)
	require.NoError(t, err)
	stored.Status = domain.TicketStatusResolved
	require.NoError(t, repo.Update(context.Background(), stored))

	ticket := seedTicket(t, repo, domain.CategoryPlumbing)
	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.Equal(t, "tech-a", assigned.ID)
}

func TestAssignNoTechniciansLeavesUnassigned(t *testing.T) {
	svc, repo, dispatcher := newAssignmentHarness()
	ticket := seedTicket(t, repo, domain.CategoryPlumbing)

	assigned, err := svc.Assign(context.Background(), ticket)
	require.NoError(t, err)
	require.Nil(t, assigned)
	require.Nil(t, ticket.AssignedTo)
	require.Empty(t, dispatcher.ofType(events.EventTicketAssigned))
}
