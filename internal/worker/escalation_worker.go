package worker

import (
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/service"
)

// StartEscalationWorker subscribes the escalation notifier to ticket events.
func StartEscalationWorker(escalationService *service.EscalationService, dispatcher events.Dispatcher) {
	if escalationService == nil {
		return
	}
	escalationService.RegisterHandlers(dispatcher)
}
