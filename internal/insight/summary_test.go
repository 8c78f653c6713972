package insight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/repository"
)

// stubTickets embeds the interface so only the aggregate methods need bodies.
type stubTickets struct {
	repository.TicketRepository
	byStatus   map[domain.TicketStatus]int
	byPriority map[domain.TicketPriority]int
	calls      int
}

func (s *stubTickets) CountByStatus(context.Context, string) (map[domain.TicketStatus]int, error) {
	s.calls++
	return s.byStatus, nil
}

func (s *stubTickets) CountByPriority(context.Context, string) (map[domain.TicketPriority]int, error) {
	return s.byPriority, nil
}

type stubTechnicians struct {
	repository.TechnicianRepository
	workloads []domain.TechnicianWorkload
}

func (s *stubTechnicians) Candidates(context.Context, string, *domain.Category) ([]domain.TechnicianWorkload, error) {
	return s.workloads, nil
}

func TestOrganizationSummaryComputesAggregates(t *testing.T) {
	tickets := &stubTickets{
		byStatus: map[domain.TicketStatus]int{
			domain.TicketStatusOpen:     3,
			domain.TicketStatusResolved: 1,
		},
		byPriority: map[domain.TicketPriority]int{
			domain.TicketPriorityHigh:   2,
			domain.TicketPriorityMedium: 2,
		},
	}
	technicians := &stubTechnicians{workloads: []domain.TechnicianWorkload{
		{Technician: domain.Technician{ID: "tech-a", Name: "A", Specialty: domain.CategoryPlumbing}, Active: 2},
		{Technician: domain.Technician{ID: "tech-b", Name: "B", Specialty: domain.CategoryGeneral}, Active: 1},
	}}

	svc := NewService(tickets, technicians, nil, time.Minute, zap.NewNop())
	summary, err := svc.OrganizationSummary(context.Background(), "org-1")
	require.NoError(t, err)

	require.Equal(t, "org-1", summary.OrganizationID)
	require.Equal(t, 3, summary.ByStatus[domain.TicketStatusOpen])
	require.Equal(t, 2, summary.ByPriority[domain.TicketPriorityHigh])
	require.Len(t, summary.Workloads, 2)
	require.Equal(t, "tech-a", summary.Workloads[0].TechnicianID)
	require.Equal(t, 2, summary.Workloads[0].Active)
	require.False(t, summary.GeneratedAt.IsZero())
}

func TestOrganizationSummaryWithoutCacheRecomputes(t *testing.T) {
	tickets := &stubTickets{
		byStatus:   map[domain.TicketStatus]int{},
		byPriority: map[domain.TicketPriority]int{},
	}
	svc := NewService(tickets, &stubTechnicians{}, nil, time.Minute, zap.NewNop())

	_, err := svc.OrganizationSummary(context.Background(), "org-1")
	require.NoError(t, err)
	_, err = svc.OrganizationSummary(context.Background(), "org-1")
	require.NoError(t, err)
	require.Equal(t, 2, tickets.calls)
}
