package sla

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

type fakeCalendarStore struct {
	hours    []domain.WorkingHoursEntry
	holidays []domain.Holiday
	err      error
}

func (s *fakeCalendarStore) ListWorkingHours(ctx context.Context, branchID string) ([]domain.WorkingHoursEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hours, nil
}

func (s *fakeCalendarStore) ListHolidays(ctx context.Context, branchID string, from, to time.Time) ([]domain.Holiday, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.holidays, nil
}

func TestCalendarProviderFillsMissingWeekdays(t *testing.T) {
	store := &fakeCalendarStore{hours: []domain.WorkingHoursEntry{
		{BranchID: "branch-1", Weekday: time.Monday, Open: 8 * 60, Close: 14 * 60},
		{BranchID: "branch-1", Weekday: time.Saturday, IsClosed: true},
	}}
	provider := NewCalendarProvider(store, nil, zap.NewNop())

	schedule := provider.Schedule(context.Background(), "branch-1")

	monday := schedule.Day(time.Monday)
	assert.Equal(t, 8*60, monday.Open)
	assert.Equal(t, 14*60, monday.Close)

	assert.True(t, schedule.Day(time.Saturday).Closed)
	assert.True(t, schedule.Day(time.Sunday).Closed)

	// Weekdays without rows keep the default window.
	tuesday := schedule.Day(time.Tuesday)
	assert.Equal(t, domain.DefaultOpenMinute, tuesday.Open)
	assert.Equal(t, domain.DefaultCloseMinute, tuesday.Close)
}

func TestCalendarProviderDefaultsOnStoreError(t *testing.T) {
	store := &fakeCalendarStore{err: errors.New("connection refused")}
	provider := NewCalendarProvider(store, nil, zap.NewNop())

	schedule := provider.Schedule(context.Background(), "branch-1")

	assert.Equal(t, domain.DefaultSchedule(), schedule)
}

func TestCalendarProviderHolidays(t *testing.T) {
	store := &fakeCalendarStore{holidays: []domain.Holiday{
		{ID: "h1", Date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{ID: "h2", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	}}
	provider := NewCalendarProvider(store, nil, zap.NewNop())

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	set := provider.Holidays(context.Background(), "branch-1", from, from.AddDate(0, 1, 0))

	assert.True(t, set.Contains(time.Date(2024, 6, 8, 15, 30, 0, 0, time.UTC)))
	assert.True(t, set.Contains(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, set.Contains(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)))
}

func TestCalendarProviderHolidaysEmptyOnStoreError(t *testing.T) {
	store := &fakeCalendarStore{err: errors.New("timeout")}
	provider := NewCalendarProvider(store, nil, zap.NewNop())

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	set := provider.Holidays(context.Background(), "branch-1", from, from.AddDate(0, 0, 7))

	assert.Empty(t, set)
}
