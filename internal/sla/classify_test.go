package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

func TestClassifyCalendarLattice(t *testing.T) {
	created := time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)
	due := created.Add(100 * time.Minute)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    domain.SLAStatus
	}{
		{"fresh ticket", 0, domain.SLAStatusOnTrack},
		{"just under warning", 74 * time.Minute, domain.SLAStatusOnTrack},
		{"warning boundary", 75 * time.Minute, domain.SLAStatusWarning},
		{"just under critical", 89 * time.Minute, domain.SLAStatusWarning},
		{"critical boundary", 90 * time.Minute, domain.SLAStatusCritical},
		{"breach boundary", 100 * time.Minute, domain.SLAStatusBreached},
		{"long past due", 500 * time.Minute, domain.SLAStatusBreached},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(created.Add(tc.elapsed), ClassifyInput{
				CreatedAt: created,
				DueAt:     &due,
				Status:    domain.TicketStatusWorking,
			})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyCompletedOverridesBreach(t *testing.T) {
	created := time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)
	due := created.Add(time.Hour)
	now := due.Add(48 * time.Hour)

	for _, status := range []domain.TicketStatus{domain.TicketStatusDone, domain.TicketStatusCancelled} {
		got := Classify(now, ClassifyInput{CreatedAt: created, DueAt: &due, Status: status})
		assert.Equal(t, domain.SLAStatusCompleted, got, "status %s", status)
	}
}

func TestClassifyWithoutDeadline(t *testing.T) {
	created := time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)

	got := Classify(created.Add(time.Hour), ClassifyInput{
		CreatedAt: created,
		Status:    domain.TicketStatusOpen,
	})

	assert.Equal(t, domain.SLAStatusNone, got)
}

func TestClassifyDueBeforeCreation(t *testing.T) {
	created := time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)
	due := created.Add(-time.Minute)

	got := Classify(created, ClassifyInput{
		CreatedAt: created,
		DueAt:     &due,
		Status:    domain.TicketStatusOpen,
	})

	assert.Equal(t, domain.SLAStatusBreached, got)
}

func TestClassifyWithSuppliedProgress(t *testing.T) {
	created := time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)
	due := created.Add(time.Hour)

	tests := []struct {
		name     string
		progress float64
		want     domain.SLAStatus
	}{
		{"on track", 0.4, domain.SLAStatusOnTrack},
		{"warning", 0.8, domain.SLAStatusWarning},
		{"critical", 0.95, domain.SLAStatusCritical},
		{"breached", 1.2, domain.SLAStatusBreached},
		{"negative clamps to zero", -0.5, domain.SLAStatusOnTrack},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.progress
			got := Classify(created, ClassifyInput{
				CreatedAt: created,
				DueAt:     &due,
				Status:    domain.TicketStatusAssigned,
				Progress:  &p,
			})
			assert.Equal(t, tc.want, got)
		})
	}
}
