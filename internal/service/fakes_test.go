package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket

	createErr error
	updateErr error
	triageErr error
	assignErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) UpdateTriage(_ context.Context, ticket *domain.Ticket) error {
	if f.triageErr != nil {
		return f.triageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = ticket.Title
	stored.Description = ticket.Description
	stored.Priority = ticket.Priority
	stored.Source = ticket.Source
	stored.Category = ticket.Category
	return nil
}

func (f *fakeTicketRepo) UpdateAssignment(_ context.Context, ticketID string, technicianID *string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.AssignedTo = technicianID
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, stored := range f.tickets {
		if filter.OrganizationID != nil && stored.OrganizationID != *filter.OrganizationID {
			continue
		}
		if filter.TenantID != nil && (stored.TenantID == nil || *stored.TenantID != *filter.TenantID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, stored.Priority) {
			continue
		}
		out = append(out, *stored)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTicketRepo) CountByStatus(_ context.Context, orgID string) (map[domain.TicketStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.TicketStatus]int)
	for _, stored := range f.tickets {
		if stored.OrganizationID == orgID {
			counts[stored.Status]++
		}
	}
	return counts, nil
}

func (f *fakeTicketRepo) CountByPriority(_ context.Context, orgID string) (map[domain.TicketPriority]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.TicketPriority]int)
	for _, stored := range f.tickets {
		if stored.OrganizationID == orgID {
			counts[stored.Priority]++
		}
	}
	return counts, nil
}

func containsStatus(haystack []domain.TicketStatus, needle domain.TicketStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []domain.TicketPriority, needle domain.TicketPriority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}

// fakeTechnicianRepo computes workload live against the ticket repo, the same
// way the SQL aggregate does.
type fakeTechnicianRepo struct {
	tickets     *fakeTicketRepo
	technicians []domain.Technician

	candidatesErr error
}

func (f *fakeTechnicianRepo) Create(_ context.Context, technician *domain.Technician) error {
	f.technicians = append(f.technicians, *technician)
	return nil
}

func (f *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	for i := range f.technicians {
		if f.technicians[i].ID == id {
			copied := f.technicians[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTechnicianRepo) GetByUserID(_ context.Context, userID string) (*domain.Technician, error) {
	for i := range f.technicians {
		if f.technicians[i].UserID != nil && *f.technicians[i].UserID == userID {
			copied := f.technicians[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTechnicianRepo) ActiveWorkload(_ context.Context, technicianID string) (int, error) {
	return f.active(technicianID), nil
}

func (f *fakeTechnicianRepo) Candidates(_ context.Context, orgID string, specialty *domain.Category) ([]domain.TechnicianWorkload, error) {
	if f.candidatesErr != nil {
		return nil, f.candidatesErr
	}
	var out []domain.TechnicianWorkload
	for _, tech := range f.technicians {
		if tech.OrganizationID != orgID {
			continue
		}
		if specialty != nil && tech.Specialty != *specialty {
			continue
		}
		out = append(out, domain.TechnicianWorkload{Technician: tech, Active: f.active(tech.ID)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active < out[j].Active
		}
		return out[i].Technician.ID < out[j].Technician.ID
	})
	return out, nil
}

func (f *fakeTechnicianRepo) active(technicianID string) int {
	if f.tickets == nil {
		return 0
	}
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()
	count := 0
	for _, stored := range f.tickets.tickets {
		if stored.AssignedTo == nil || *stored.AssignedTo != technicianID {
			continue
		}
		if stored.Status == domain.TicketStatusOpen || stored.Status == domain.TicketStatusInProgress {
			count++
		}
	}
	return count
}

type fakeDirectoryRepo struct {
	units   map[string]domain.UnitContext
	tenants map[string]domain.Tenant
}

func (f *fakeDirectoryRepo) UnitContext(_ context.Context, unitID string) (*domain.UnitContext, error) {
	unit, ok := f.units[unitID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &unit, nil
}

func (f *fakeDirectoryRepo) TenantByUserID(_ context.Context, userID string) (*domain.Tenant, error) {
	tenant, ok := f.tenants[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &tenant, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeSender struct {
	mu        sync.Mutex
	err       error
	subjects  []string
	bodies    []string
	receivers []string
}

func (f *fakeSender) Send(_ context.Context, subject, body, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	f.receivers = append(f.receivers, recipient)
	if f.err != nil {
		return f.err
	}
	return nil
}
