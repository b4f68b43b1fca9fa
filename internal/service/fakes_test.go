package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/events"
)

// In-memory repository fakes mirroring the conditional-write semantics of
// the SQL implementations.

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket

	updateErr map[string]error
	// conflictFor simulates a concurrent writer: the conditional update
	// reports zero rows affected for these ids.
	conflictFor map[string]bool
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{
		tickets:     make(map[string]*domain.Ticket),
		updateErr:   make(map[string]error),
		conflictFor: make(map[string]bool),
	}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ListOpenWithDeadline(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.Status.IsClosed() || ticket.DueAt == nil {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) UpdateSLAStatus(ctx context.Context, id string, next, expectedPrev domain.SLAStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return false, err
	}
	if r.conflictFor[id] {
		return false, nil
	}
	ticket, ok := r.tickets[id]
	if !ok || ticket.SLAStatus != expectedPrev {
		return false, nil
	}
	ticket.SLAStatus = next
	return true, nil
}

// fakePauseRepo mirrors the transactional pause/resume semantics: either
// both the ticket flags and the ledger change, or neither does.
type fakePauseRepo struct {
	mu      sync.Mutex
	tickets *fakeTicketRepo
	records []*domain.PauseRecord

	createErr error
	resumeErr error
}

func (r *fakePauseRepo) PauseTicket(ctx context.Context, record *domain.PauseRecord) (bool, error) {
	r.tickets.mu.Lock()
	defer r.tickets.mu.Unlock()
	ticket, ok := r.tickets.tickets[record.TicketID]
	if !ok || ticket.IsPaused || ticket.Status.IsClosed() {
		return false, nil
	}
	if r.createErr != nil {
		return false, r.createErr
	}

	at := record.PausedAt
	ticket.IsPaused = true
	ticket.SLAPausedAt = &at
	ticket.PauseCount++

	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uuid.NewString()
	clone := *record
	r.records = append(r.records, &clone)
	return true, nil
}

func (r *fakePauseRepo) ResumeTicket(ctx context.Context, ticketID string, pausedMinutes int, resumedAt time.Time, resumedBy string, resumeNotes *string) (bool, error) {
	if r.resumeErr != nil {
		return false, r.resumeErr
	}
	r.tickets.mu.Lock()
	defer r.tickets.mu.Unlock()
	ticket, ok := r.tickets.tickets[ticketID]
	if !ok || !ticket.IsPaused {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var active *domain.PauseRecord
	for _, record := range r.records {
		if record.TicketID == ticketID && record.Active() {
			active = record
			break
		}
	}
	if active == nil {
		return false, nil
	}

	ticket.IsPaused = false
	ticket.SLAPausedAt = nil
	ticket.SLAPausedMinutes += pausedMinutes
	if ticket.DueAt != nil {
		extended := ticket.DueAt.Add(time.Duration(pausedMinutes) * time.Minute)
		ticket.DueAt = &extended
	}

	at := resumedAt
	by := resumedBy
	active.ResumedAt = &at
	active.ResumedBy = &by
	active.ResumeNotes = resumeNotes
	return true, nil
}

func (r *fakePauseRepo) GetActive(ctx context.Context, ticketID string) (*domain.PauseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.TicketID == ticketID && record.Active() {
			clone := *record
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePauseRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.PauseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.PauseRecord
	for _, record := range r.records {
		if record.TicketID == ticketID {
			result = append(result, *record)
		}
	}
	return result, nil
}

type fakeRuleRepo struct {
	rules map[int]*domain.EscalationRule
	err   error
}

func (r *fakeRuleRepo) GetActiveByThreshold(ctx context.Context, thresholdPercent int) (*domain.EscalationRule, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.rules[thresholdPercent], nil
}

func (r *fakeRuleRepo) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []domain.EscalationRule
	for _, rule := range r.rules {
		result = append(result, *rule)
	}
	return result, nil
}

type fakeUserRepo struct {
	byRole  map[string][]domain.User
	roleErr map[string]error
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, users := range r.byRole {
		for _, user := range users {
			if user.ID == id {
				clone := user
				return &clone, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListActiveWithRole(ctx context.Context, role string) ([]domain.User, error) {
	if err := r.roleErr[role]; err != nil {
		return nil, err
	}
	return r.byRole[role], nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	sent    []domain.Notification
	failFor map[string]error
}

func (r *fakeNotificationRepo) Enqueue(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failFor[notification.UserID]; err != nil {
		return err
	}
	notification.ID = uuid.NewString()
	r.sent = append(r.sent, *notification)
	return nil
}

func (r *fakeNotificationRepo) sentTo() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, n := range r.sent {
		counts[n.UserID]++
	}
	return counts
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, e := range d.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// fixedCalendar satisfies sla.Provider with the default schedule so service
// tests can exercise working-hours tickets without a store.
type fixedCalendar struct{}

func (fixedCalendar) Schedule(ctx context.Context, branchID string) domain.Schedule {
	return domain.DefaultSchedule()
}

func (fixedCalendar) Holidays(ctx context.Context, branchID string, from, to time.Time) domain.HolidaySet {
	return domain.HolidaySet{}
}
