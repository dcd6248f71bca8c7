package model_test

import (
	"testing"
	"time"

	"campusroom/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func clock(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusApproved, model.StatusCancelled, true},
		{model.StatusApproved, model.StatusRejected, false},
		{model.StatusApproved, model.StatusPending, false},
		{model.StatusRejected, model.StatusCancelled, false},
		{model.StatusRejected, model.StatusApproved, false},
		{model.StatusCancelled, model.StatusPending, false},
		{model.StatusCancelled, model.StatusApproved, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, model.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOverlaps(t *testing.T) {
	t.Run("PartialOverlap", func(t *testing.T) {
		assert.True(t, model.Overlaps(clock(9, 0), clock(11, 0), clock(10, 0), clock(12, 0)))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, model.Overlaps(clock(9, 0), clock(12, 0), clock(10, 0), clock(11, 0)))
	})

	t.Run("Identical", func(t *testing.T) {
		assert.True(t, model.Overlaps(clock(9, 0), clock(10, 0), clock(9, 0), clock(10, 0)))
	})

	t.Run("BackToBackDoesNotOverlap", func(t *testing.T) {
		assert.False(t, model.Overlaps(clock(9, 0), clock(10, 0), clock(10, 0), clock(11, 0)))
		assert.False(t, model.Overlaps(clock(10, 0), clock(11, 0), clock(9, 0), clock(10, 0)))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, model.Overlaps(clock(8, 0), clock(9, 0), clock(13, 0), clock(14, 0)))
	})
}

func TestPriorityFor(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		daysAhead int
		want      string
	}{
		{0, model.PriorityUrgent},
		{1, model.PriorityUrgent},
		{2, model.PriorityHigh},
		{3, model.PriorityHigh},
		{4, model.PriorityMedium},
		{7, model.PriorityMedium},
		{8, model.PriorityNormal},
		{30, model.PriorityNormal},
	}

	for _, tc := range testCases {
		bookingDate := today.AddDate(0, 0, tc.daysAhead)
		assert.Equal(t, tc.want, model.PriorityFor(bookingDate, today), "daysAhead=%d", tc.daysAhead)
	}
}

func TestDurationMinutes(t *testing.T) {
	booking := model.Booking{
		StartTime: clock(9, 0),
		EndTime:   clock(10, 30),
	}

	assert.Equal(t, 90, booking.DurationMinutes())
}
