package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/events"
)

func escalationFixture(t *testing.T) (*EscalationService, *fakeNotificationRepo, *recordingDispatcher) {
	t.Helper()
	rules := &fakeRuleRepo{rules: map[int]*domain.EscalationRule{
		domain.ThresholdWarning: {
			ID: "r75", ThresholdPercent: 75,
			NotifyRoles: []string{"branch_manager"}, IsActive: true,
		},
		domain.ThresholdCritical: {
			ID: "r90", ThresholdPercent: 90,
			NotifyRoles: []string{"branch_manager", "maintenance_manager"}, IsActive: true,
		},
	}}
	users := &fakeUserRepo{byRole: map[string][]domain.User{
		"branch_manager": {
			{ID: "bm-1", Name: "Branch Manager One", Role: "branch_manager", IsActive: true},
		},
		"maintenance_manager": {
			{ID: "mm-1", Name: "Maintenance Manager", Role: "maintenance_manager", IsActive: true},
		},
	}}
	notifications := &fakeNotificationRepo{failFor: make(map[string]error)}
	dispatcher := &recordingDispatcher{}
	svc := NewEscalationService(EscalationDependencies{
		RuleRepo:         rules,
		UserRepo:         users,
		NotificationRepo: notifications,
		Dispatcher:       dispatcher,
	}, zap.NewNop())
	return svc, notifications, dispatcher
}

func escalatableTicket() *domain.Ticket {
	assignee := "tech-1"
	due := time.Now().Add(2 * time.Hour)
	return &domain.Ticket{
		ID:         "t1",
		Title:      "Elevator outage",
		BranchID:   "branch-1",
		AssigneeID: &assignee,
		Status:     domain.TicketStatusWorking,
		DueAt:      &due,
	}
}

func TestEscalateNotifiesRolesAndAssignee(t *testing.T) {
	svc, notifications, dispatcher := escalationFixture(t)

	outcome, err := svc.Escalate(context.Background(), escalatableTicket(),
		domain.SLAStatusOnTrack, domain.SLAStatusWarning)

	require.NoError(t, err)
	assert.True(t, outcome.Escalated)
	assert.Equal(t, 75, outcome.ThresholdPercent)
	assert.Equal(t, 2, outcome.Recipients)
	assert.Equal(t, 2, outcome.NotificationsSent)

	counts := notifications.sentTo()
	assert.Equal(t, 1, counts["bm-1"])
	assert.Equal(t, 1, counts["tech-1"])

	triggered := dispatcher.ofType(events.EventEscalationTriggered)
	require.Len(t, triggered, 1)
	payload, ok := triggered[0].Payload.(events.EscalationTriggeredPayload)
	require.True(t, ok)
	assert.Equal(t, domain.SLAStatusWarning, payload.Status)
	assert.Equal(t, 2, payload.NotificationsSent)
}

func TestEscalateSkipsNonCrossing(t *testing.T) {
	svc, notifications, _ := escalationFixture(t)

	for _, tc := range []struct{ prev, next domain.SLAStatus }{
		{domain.SLAStatusWarning, domain.SLAStatusWarning},
		{domain.SLAStatusCritical, domain.SLAStatusWarning},
		{domain.SLAStatusBreached, domain.SLAStatusCompleted},
	} {
		outcome, err := svc.Escalate(context.Background(), escalatableTicket(), tc.prev, tc.next)
		require.NoError(t, err)
		assert.False(t, outcome.Escalated, "%s -> %s", tc.prev, tc.next)
	}

	assert.Empty(t, notifications.sentTo())
}

func TestEscalateMissingRuleDisablesTier(t *testing.T) {
	// No rule configured for 100 percent, so a breach crossing does nothing.
	svc, notifications, dispatcher := escalationFixture(t)

	outcome, err := svc.Escalate(context.Background(), escalatableTicket(),
		domain.SLAStatusCritical, domain.SLAStatusBreached)

	require.NoError(t, err)
	assert.False(t, outcome.Escalated)
	assert.Empty(t, notifications.sentTo())
	assert.Empty(t, dispatcher.ofType(events.EventEscalationTriggered))
}

func TestEscalateRoleLookupFailureDropsRoleOnly(t *testing.T) {
	svc, notifications, _ := escalationFixture(t)
	userRepo := svc.users.(*fakeUserRepo)
	userRepo.roleErr = map[string]error{"branch_manager": errors.New("timeout")}

	outcome, err := svc.Escalate(context.Background(), escalatableTicket(),
		domain.SLAStatusWarning, domain.SLAStatusCritical)

	require.NoError(t, err)
	assert.True(t, outcome.Escalated)

	// maintenance_manager and the assignee still get notified.
	counts := notifications.sentTo()
	assert.Equal(t, 1, counts["mm-1"])
	assert.Equal(t, 1, counts["tech-1"])
	assert.Zero(t, counts["bm-1"])
}

func TestEscalateEnqueueFailureDoesNotBlockOthers(t *testing.T) {
	svc, notifications, _ := escalationFixture(t)
	notifications.failFor["bm-1"] = errors.New("insert failed")

	outcome, err := svc.Escalate(context.Background(), escalatableTicket(),
		domain.SLAStatusOnTrack, domain.SLAStatusWarning)

	require.NoError(t, err)
	assert.True(t, outcome.Escalated)
	assert.Equal(t, 2, outcome.Recipients)
	assert.Equal(t, 1, outcome.NotificationsSent)
	assert.Equal(t, 1, notifications.sentTo()["tech-1"])
}

func TestEscalateDeduplicatesAssigneeInRole(t *testing.T) {
	svc, notifications, _ := escalationFixture(t)
	ticket := escalatableTicket()
	assignee := "bm-1"
	ticket.AssigneeID = &assignee

	outcome, err := svc.Escalate(context.Background(), ticket,
		domain.SLAStatusOnTrack, domain.SLAStatusWarning)

	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Recipients)
	assert.Equal(t, 1, notifications.sentTo()["bm-1"])
}
