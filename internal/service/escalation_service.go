package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/events"
	"github.com/spec-kit/maintenance-sla/internal/repository"
	"github.com/spec-kit/maintenance-sla/internal/sla"
)

// EscalationOutcome reports what an escalation attempt did.
type EscalationOutcome struct {
	Escalated         bool
	ThresholdPercent  int
	Recipients        int
	NotificationsSent int
}

// EscalationService emits at most one notification batch per threshold
// crossing. Rule selection is an exact threshold match; a missing rule means
// the tier is disabled, not an error.
type EscalationService struct {
	rules         repository.EscalationRuleRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
}

// EscalationDependencies bundles collaborators for the service.
type EscalationDependencies struct {
	RuleRepo         repository.EscalationRuleRepository
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		rules:         deps.RuleRepo,
		users:         deps.UserRepo,
		notifications: deps.NotificationRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		now:           time.Now,
	}
}

// Escalate decides whether the prev->next transition crossed a threshold
// and, if so, notifies the configured roles plus the assignee. Individual
// enqueue failures are logged and do not block the other recipients or roll
// back the caller's status update.
func (s *EscalationService) Escalate(ctx context.Context, ticket *domain.Ticket, prev, next domain.SLAStatus) (EscalationOutcome, error) {
	if !sla.ShouldEscalate(prev, next) {
		return EscalationOutcome{}, nil
	}
	threshold, ok := sla.ThresholdForStatus(next)
	if !ok {
		return EscalationOutcome{}, nil
	}

	rule, err := s.rules.GetActiveByThreshold(ctx, threshold)
	if err != nil {
		return EscalationOutcome{}, err
	}
	if rule == nil {
		s.logger.Debug("no escalation rule for tier; escalation disabled",
			zap.Int("threshold_percent", threshold),
			zap.String("ticket_id", ticket.ID))
		return EscalationOutcome{}, nil
	}

	recipients := s.collectRecipients(ctx, ticket, rule)
	title, message := s.composeNotification(ticket, next)

	sent := 0
	for userID := range recipients {
		notification := &domain.Notification{
			UserID:   userID,
			TicketID: ticket.ID,
			Title:    title,
			Message:  message,
		}
		if err := s.notifications.Enqueue(ctx, notification); err != nil {
			s.logger.Warn("notification enqueue failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		sent++
	}

	outcome := EscalationOutcome{
		Escalated:         true,
		ThresholdPercent:  threshold,
		Recipients:        len(recipients),
		NotificationsSent: sent,
	}
	s.publish(ctx, events.Event{
		Type:     events.EventEscalationTriggered,
		TicketID: ticket.ID,
		Payload: events.EscalationTriggeredPayload{
			Status:            next,
			ThresholdPercent:  threshold,
			RecipientCount:    outcome.Recipients,
			NotificationsSent: sent,
		},
	})
	return outcome, nil
}

// collectRecipients resolves every active user holding one of the rule's
// roles, plus the ticket's current assignee if not already included. A role
// lookup failure drops that role, not the whole batch.
func (s *EscalationService) collectRecipients(ctx context.Context, ticket *domain.Ticket, rule *domain.EscalationRule) map[string]struct{} {
	recipients := make(map[string]struct{})
	for _, role := range rule.NotifyRoles {
		users, err := s.users.ListActiveWithRole(ctx, role)
		if err != nil {
			s.logger.Warn("role lookup failed",
				zap.String("role", role),
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
			continue
		}
		for _, user := range users {
			recipients[user.ID] = struct{}{}
		}
	}
	if ticket.AssigneeID != nil && *ticket.AssigneeID != "" {
		recipients[*ticket.AssigneeID] = struct{}{}
	}
	return recipients
}

func (s *EscalationService) composeNotification(ticket *domain.Ticket, status domain.SLAStatus) (title, message string) {
	var label string
	switch status {
	case domain.SLAStatusWarning:
		label = "SLA warning"
	case domain.SLAStatusCritical:
		label = "SLA critical"
	default:
		label = "SLA breached"
	}

	hoursLeft := 0.0
	if ticket.DueAt != nil {
		if remaining := ticket.DueAt.Sub(s.now()).Hours(); remaining > 0 {
			hoursLeft = remaining
		}
	}

	title = fmt.Sprintf("%s: %s", label, ticket.Title)
	message = fmt.Sprintf("Ticket %s (%s) has %.1f hours remaining until its deadline.",
		ticket.ID, ticket.Title, hoursLeft)
	return title, message
}

func (s *EscalationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
