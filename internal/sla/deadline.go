package sla

import (
	"context"
	"time"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// MaxWalkDays bounds the working-hours walk. A misconfigured calendar
// (every day closed, permanent holidays) must surface as a reported
// condition instead of an unbounded loop.
const MaxWalkDays = 90

// DueResult reports a computed deadline plus audit figures: the working
// minutes actually consumed from the budget and the calendar-minute span
// between start and due.
type DueResult struct {
	DueAt           time.Time
	WorkingMinutes  int
	CalendarMinutes int
	// BoundExceeded is set when the walk hit MaxWalkDays before the budget
	// was spent; DueAt then holds the last pointer reached.
	BoundExceeded bool
}

// Calculator turns an SLA budget into a concrete due time under either
// time-accounting mode.
type Calculator struct {
	calendars Provider
}

// NewCalculator constructs a deadline calculator.
func NewCalculator(calendars Provider) *Calculator {
	return &Calculator{calendars: calendars}
}

// ComputeDueAt returns the deadline for a ticket started at start with a
// budget of slaHours, minus pausedMinutes already consumed by pauses.
// The remaining budget floors at zero in both modes: pausedMinutes beyond
// the whole budget yields a due time of start itself, never one before it.
// Calendar mode is pure arithmetic; working-hours mode walks the branch
// calendar day by day.
func (c *Calculator) ComputeDueAt(ctx context.Context, start time.Time, slaHours int, mode domain.SLAMode, branchID string, pausedMinutes int) DueResult {
	budget := slaHours*60 - pausedMinutes
	if budget < 0 {
		budget = 0
	}

	if mode != domain.SLAModeWorkingHours {
		due := start.Add(time.Duration(budget) * time.Minute)
		return DueResult{
			DueAt:           due,
			WorkingMinutes:  budget,
			CalendarMinutes: budget,
		}
	}
	return c.walkForward(ctx, start, budget, branchID)
}

// WorkingMinutesBetween counts the working minutes inside [from, to] on the
// branch calendar. The walk shares the MaxWalkDays bound; when to lies past
// the bound the count covers only the bounded range and the flag is set.
func (c *Calculator) WorkingMinutesBetween(ctx context.Context, branchID string, from, to time.Time) (int, bool) {
	if !to.After(from) {
		return 0, false
	}

	schedule := c.calendars.Schedule(ctx, branchID)
	holidays := c.calendars.Holidays(ctx, branchID, startOfDay(from), to)

	total := 0
	pointer := from
	for day := 0; day < MaxWalkDays; day++ {
		if !pointer.Before(to) {
			return total, false
		}
		open, close, ok := dayWindow(schedule, holidays, pointer)
		if ok {
			windowStart := laterOf(pointer, open)
			windowEnd := close
			if to.Before(windowEnd) {
				windowEnd = to
			}
			if windowEnd.After(windowStart) {
				total += int(windowEnd.Sub(windowStart).Minutes())
			}
		}
		pointer = nextMidnight(pointer)
	}
	return total, pointer.Before(to)
}

func (c *Calculator) walkForward(ctx context.Context, start time.Time, budget int, branchID string) DueResult {
	schedule := c.calendars.Schedule(ctx, branchID)
	holidays := c.calendars.Holidays(ctx, branchID, startOfDay(start), start.AddDate(0, 0, MaxWalkDays))

	remaining := budget
	consumed := 0
	pointer := start
	for day := 0; day < MaxWalkDays; day++ {
		open, close, ok := dayWindow(schedule, holidays, pointer)
		if ok {
			effective := laterOf(pointer, open)
			if effective.Before(close) {
				available := int(close.Sub(effective).Minutes())
				if remaining <= available {
					due := effective.Add(time.Duration(remaining) * time.Minute)
					consumed += remaining
					return DueResult{
						DueAt:           due,
						WorkingMinutes:  consumed,
						CalendarMinutes: int(due.Sub(start).Minutes()),
					}
				}
				remaining -= available
				consumed += available
			}
		}
		pointer = nextMidnight(pointer)
	}

	return DueResult{
		DueAt:           pointer,
		WorkingMinutes:  consumed,
		CalendarMinutes: int(pointer.Sub(start).Minutes()),
		BoundExceeded:   true,
	}
}

// dayWindow resolves the open window containing or following pointer on its
// calendar day. Holidays and closed weekdays yield no window.
func dayWindow(schedule domain.Schedule, holidays domain.HolidaySet, pointer time.Time) (open, close time.Time, ok bool) {
	if holidays.Contains(pointer) {
		return time.Time{}, time.Time{}, false
	}
	day := schedule.Day(pointer.Weekday())
	if day.Closed || day.Minutes() == 0 {
		return time.Time{}, time.Time{}, false
	}
	midnight := startOfDay(pointer)
	open = midnight.Add(time.Duration(day.Open) * time.Minute)
	close = midnight.Add(time.Duration(day.Close) * time.Minute)
	return open, close, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
