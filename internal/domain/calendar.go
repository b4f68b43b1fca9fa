package domain

import "time"

// Default branch schedule applied when no rows are configured:
// Monday through Saturday 09:00-18:00, Sunday closed.
const (
	DefaultOpenMinute  = 9 * 60
	DefaultCloseMinute = 18 * 60
)

// WorkingHoursEntry is one configured (branch, weekday) row.
// Open and Close are minutes from midnight in the branch's local day.
type WorkingHoursEntry struct {
	BranchID string
	Weekday  time.Weekday
	Open     int
	Close    int
	IsClosed bool
}

// DaySchedule is the resolved open window for a single weekday.
type DaySchedule struct {
	Weekday time.Weekday
	Open    int
	Close   int
	Closed  bool
}

// Minutes returns the length of the open window.
func (d DaySchedule) Minutes() int {
	if d.Closed || d.Close <= d.Open {
		return 0
	}
	return d.Close - d.Open
}

// Schedule covers all seven weekdays of a branch, indexed by time.Weekday.
type Schedule struct {
	Days [7]DaySchedule
}

// Day returns the entry for the given weekday.
func (s Schedule) Day(wd time.Weekday) DaySchedule {
	return s.Days[int(wd)]
}

// DefaultSchedule builds the fallback calendar used when a branch has no
// configured rows or the calendar store is unreachable.
func DefaultSchedule() Schedule {
	var s Schedule
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := DaySchedule{Weekday: wd, Open: DefaultOpenMinute, Close: DefaultCloseMinute}
		if wd == time.Sunday {
			day.Closed = true
			day.Open, day.Close = 0, 0
		}
		s.Days[int(wd)] = day
	}
	return s
}

// Holiday marks a whole day closed for one branch, or for every branch when
// BranchID is nil. Holidays override the weekday schedule.
type Holiday struct {
	ID       string
	BranchID *string
	Date     time.Time
	Name     string
}

// HolidaySet answers day-closed lookups by calendar date.
type HolidaySet map[string]struct{}

const holidayDateLayout = "2006-01-02"

// Add records a holiday date in the set.
func (h HolidaySet) Add(date time.Time) {
	h[date.Format(holidayDateLayout)] = struct{}{}
}

// Contains reports whether the day of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(holidayDateLayout)]
	return ok
}
