package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propos/maintenance-engine/internal/config"
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/notify"
)

// EscalationService dispatches alerts for HIGH and EMERGENCY tickets. Every
// dispatch is best-effort: a failed send is logged and swallowed so that
// ticket creation never fails on notification problems.
type EscalationService struct {
	sender notify.Sender
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewEscalationService creates the service.
func NewEscalationService(sender notify.Sender, logger *zap.Logger, cfg config.NotificationConfig) *EscalationService {
	return &EscalationService{sender: sender, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to escalation events.
func (s *EscalationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketEscalated, s.handleTicketEscalated)
}

func (s *EscalationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		s.logger.Warn("unexpected escalation payload", zap.String("ticket_id", event.TicketID))
		return nil
	}

	recipient := payload.Recipient
	if recipient == "" {
		recipient = s.cfg.AlertRecipient
	}
	if recipient == "" {
		s.logger.Warn("no alert recipient configured, skipping escalation alert",
			zap.String("ticket_id", event.TicketID))
		return nil
	}

	assignment := "UNASSIGNED - requires manual dispatch"
	if payload.TechnicianID != nil {
		assignment = fmt.Sprintf("Assigned to %s (%s)", payload.TechnicianName, payload.Category)
	}

	subject := fmt.Sprintf("URGENT: %s issue at Unit %s", payload.Priority, payload.UnitNumber)
	body := fmt.Sprintf(`URGENT MAINTENANCE REPORT
-------------------------
Issue: %s
Category: %s
Priority: %s
Location: Unit %s (%s)
Assignment: %s

Triage notes:
%s

Please log in to the dashboard to investigate.`,
		payload.Title,
		payload.Category,
		payload.Priority,
		payload.UnitNumber,
		payload.PropertyName,
		assignment,
		payload.Description,
	)

	if err := s.sender.Send(ctx, subject, body, recipient); err != nil {
		s.logger.Warn("escalation alert dispatch failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("recipient", recipient),
			zap.Error(err))
		return nil
	}

	s.logger.Info("escalation alert sent",
		zap.String("ticket_id", event.TicketID),
		zap.String("priority", string(payload.Priority)))
	return nil
}
