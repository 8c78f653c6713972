// Package insight serves the aggregated read surface consumed by dashboards
// and the conversational assistant: per-organization ticket counts and the
// live technician workload list.
package insight

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/domain"
	"github.com/propos/maintenance-engine/internal/repository"
	apperrors "github.com/propos/maintenance-engine/pkg/util"
)

// WorkloadEntry is one technician's derived workload.
type WorkloadEntry struct {
	TechnicianID string          `json:"technician_id"`
	Name         string          `json:"name"`
	Specialty    domain.Category `json:"specialty"`
	Active       int             `json:"active_tickets"`
}

// Summary is the aggregate view for one organization.
type Summary struct {
	OrganizationID string                        `json:"organization_id"`
	ByStatus       map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority     map[domain.TicketPriority]int `json:"by_priority"`
	Workloads      []WorkloadEntry               `json:"workloads"`
	GeneratedAt    time.Time                     `json:"generated_at"`
}

// Service computes summaries, caching them briefly in Redis since the chat
// assistant polls this surface far more often than tickets change.
type Service struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	cache       *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

// NewService creates the service. A nil cache disables caching.
func NewService(tickets repository.TicketRepository, technicians repository.TechnicianRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		tickets:     tickets,
		technicians: technicians,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
	}
}

func cacheKey(orgID string) string {
	return "insight:summary:" + orgID
}

// OrganizationSummary returns the cached or freshly computed summary.
func (s *Service) OrganizationSummary(ctx context.Context, orgID string) (*Summary, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(orgID)).Bytes()
		if err == nil {
			var cached Summary
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("insight cache read failed", zap.Error(err))
		}
	}

	byStatus, err := s.tickets.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.tickets.CountByPriority(ctx, orgID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	candidates, err := s.technicians.Candidates(ctx, orgID, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	workloads := make([]WorkloadEntry, 0, len(candidates))
	for _, c := range candidates {
		workloads = append(workloads, WorkloadEntry{
			TechnicianID: c.Technician.ID,
			Name:         c.Technician.Name,
			Specialty:    c.Technician.Specialty,
			Active:       c.Active,
		})
	}

	summary := &Summary{
		OrganizationID: orgID,
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		Workloads:      workloads,
		GeneratedAt:    time.Now().UTC(),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, cacheKey(orgID), raw, s.ttl).Err(); err != nil {
				s.logger.Warn("insight cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}
