package sla

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// Provider resolves branch working calendars for deadline computation.
// Lookups never fail: an unreachable calendar store degrades to the default
// schedule so an in-flight ticket is never blocked on configuration.
type Provider interface {
	Schedule(ctx context.Context, branchID string) domain.Schedule
	Holidays(ctx context.Context, branchID string, from, to time.Time) domain.HolidaySet
}

// CalendarStore is the persistence contract the provider reads from.
type CalendarStore interface {
	ListWorkingHours(ctx context.Context, branchID string) ([]domain.WorkingHoursEntry, error)
	ListHolidays(ctx context.Context, branchID string, from, to time.Time) ([]domain.Holiday, error)
}

const (
	scheduleCacheTTL = 5 * time.Minute
	holidayCacheTTL  = 5 * time.Minute
)

// CalendarProvider reads branch schedules from the calendar store with a
// short-lived redis cache in front. A nil redis client disables caching.
type CalendarProvider struct {
	store  CalendarStore
	cache  *redis.Client
	logger *zap.Logger
}

// NewCalendarProvider constructs the provider.
func NewCalendarProvider(store CalendarStore, cache *redis.Client, logger *zap.Logger) *CalendarProvider {
	return &CalendarProvider{store: store, cache: cache, logger: logger}
}

// Schedule resolves the seven weekday entries for a branch, filling gaps
// with the default schedule so every weekday always has an entry.
func (p *CalendarProvider) Schedule(ctx context.Context, branchID string) domain.Schedule {
	cacheKey := fmt.Sprintf("sla:schedule:%s", branchID)
	if cached, ok := p.cachedSchedule(ctx, cacheKey); ok {
		return cached
	}

	schedule := domain.DefaultSchedule()
	rows, err := p.store.ListWorkingHours(ctx, branchID)
	if err != nil {
		p.logger.Warn("calendar lookup failed; using default schedule",
			zap.String("branch_id", branchID), zap.Error(err))
		return schedule
	}
	for _, row := range rows {
		day := domain.DaySchedule{
			Weekday: row.Weekday,
			Open:    row.Open,
			Close:   row.Close,
			Closed:  row.IsClosed,
		}
		schedule.Days[int(row.Weekday)] = day
	}

	p.storeCached(ctx, cacheKey, schedule, scheduleCacheTTL)
	return schedule
}

// Holidays returns the closed dates for a branch within [from, to].
// Global holidays (branch_id null) apply to every branch. Store errors
// degrade to an empty set with a warning.
func (p *CalendarProvider) Holidays(ctx context.Context, branchID string, from, to time.Time) domain.HolidaySet {
	cacheKey := fmt.Sprintf("sla:holidays:%s:%s:%s",
		branchID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := p.cachedHolidays(ctx, cacheKey); ok {
		return cached
	}

	set := domain.HolidaySet{}
	holidays, err := p.store.ListHolidays(ctx, branchID, from, to)
	if err != nil {
		p.logger.Warn("holiday lookup failed; treating range as holiday-free",
			zap.String("branch_id", branchID), zap.Error(err))
		return set
	}
	for _, h := range holidays {
		set.Add(h.Date)
	}

	p.storeCached(ctx, cacheKey, set, holidayCacheTTL)
	return set
}

func (p *CalendarProvider) cachedSchedule(ctx context.Context, key string) (domain.Schedule, bool) {
	if p.cache == nil {
		return domain.Schedule{}, false
	}
	payload, err := p.cache.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Schedule{}, false
	}
	var schedule domain.Schedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		return domain.Schedule{}, false
	}
	return schedule, true
}

func (p *CalendarProvider) cachedHolidays(ctx context.Context, key string) (domain.HolidaySet, bool) {
	if p.cache == nil {
		return nil, false
	}
	payload, err := p.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var set domain.HolidaySet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, false
	}
	return set, true
}

func (p *CalendarProvider) storeCached(ctx context.Context, key string, value any, ttl time.Duration) {
	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, payload, ttl).Err(); err != nil {
		p.logger.Debug("calendar cache write failed", zap.String("key", key), zap.Error(err))
	}
}
