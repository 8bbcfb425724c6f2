package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
)

// AuditService logs every committed mutation as a structured audit entry.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

var auditedEvents = []events.EventType{
	events.EventUserCreated,
	events.EventUserUpdated,
	events.EventUserDeleted,
	events.EventRolesChanged,
	events.EventTeamCreated,
	events.EventTeamUpdated,
	events.EventTeamDeleted,
	events.EventMemberAdded,
	events.EventMemberRemoved,
	events.EventTicketCreated,
	events.EventTicketUpdated,
	events.EventTicketDeleted,
}

// RegisterHandlers subscribes the audit sink to every mutation event.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range auditedEvents {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event", string(event.Type)),
		zap.Int64("actor_id", event.ActorID),
		zap.Int64("entity_id", event.EntityID),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if len(event.Detail) > 0 {
		fields = append(fields, zap.Any("detail", event.Detail))
	}
	s.logger.Info("audit", fields...)
	return nil
}
