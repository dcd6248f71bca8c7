package dto_test

import (
	"testing"
	"time"

	"campusroom/internal/domains/booking/model"
	"campusroom/internal/domains/booking/model/dto"
	"campusroom/shared/constant"
	gModel "campusroom/shared/model"
	"campusroom/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	today := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	req := dto.CreateBookingRequest{
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookingDate: "2026-09-10",
		StartTime:   "09:00",
		EndTime:     "11:00",
		Purpose:     "Weekly study group",
		Notes:       "Need the projector",
	}

	userID := "test-user-id"

	booking, err := req.ToModel(userID, today)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, req.RoomID, booking.RoomID)
	assert.Equal(t, req.CourseID, booking.CourseID)
	assert.Equal(t, userID, booking.BookedBy)
	assert.Equal(t, "2026-09-10", booking.BookingDate.Format("2006-01-02"))
	assert.Equal(t, timezone.GetLocation(), booking.BookingDate.Location(), "booking date is parsed in the application timezone")
	assert.Equal(t, "09:00", booking.StartTime.Format("15:04"))
	assert.Equal(t, "11:00", booking.EndTime.Format("15:04"))
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, userID, booking.CreatedBy)
	assert.False(t, booking.CreatedAt.IsZero(), "expected CreatedAt to be set")
	assert.Equal(t, 120, booking.DurationMinutes())
}

func TestCreateBookingRequest_ToModel_TodayIsNotPast(t *testing.T) {
	today := timezone.Today()

	req := dto.CreateBookingRequest{
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookingDate: today.Format(constant.CalendarDayFormat),
		StartTime:   "09:00",
		EndTime:     "11:00",
		Purpose:     "Weekly study group",
	}

	booking, err := req.ToModel("test-user-id", today)
	require.NoError(t, err)

	assert.False(t, booking.BookingDate.Before(today), "a booking for today must not compare as past")
	assert.Equal(t, model.PriorityUrgent, booking.Priority)
}

func TestCreateBookingRequest_ToModel_Priority(t *testing.T) {
	today := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		bookingDate string
		priority    string
	}{
		{name: "same day is urgent", bookingDate: "2026-09-01", priority: model.PriorityUrgent},
		{name: "next day is urgent", bookingDate: "2026-09-02", priority: model.PriorityUrgent},
		{name: "three days ahead is high", bookingDate: "2026-09-04", priority: model.PriorityHigh},
		{name: "one week ahead is medium", bookingDate: "2026-09-08", priority: model.PriorityMedium},
		{name: "two weeks ahead is normal", bookingDate: "2026-09-15", priority: model.PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{
				RoomID:      "room-1",
				CourseID:    "course-1",
				BookingDate: tt.bookingDate,
				StartTime:   "09:00",
				EndTime:     "10:00",
				Purpose:     "Lecture",
			}

			booking, err := req.ToModel("user-1", today)
			require.NoError(t, err)

			assert.Equal(t, tt.priority, booking.Priority)
		})
	}
}

func TestCreateBookingRequest_ToModel_InvalidDate(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookingDate: "10-09-2026",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Purpose:     "Lecture",
	}

	_, err := req.ToModel("user-1", timezone.Today())
	assert.Error(t, err)
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	decidedBy := "lecturer-1"
	decidedAt := time.Date(2026, time.September, 2, 10, 30, 0, 0, time.UTC)

	bookingModel := model.Booking{
		ID:          "booking-1",
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookedBy:    "rep-1",
		BookingDate: time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   mustClock(t, "09:00"),
		EndTime:     mustClock(t, "11:00"),
		Purpose:     "Weekly study group",
		Status:      model.StatusApproved,
		Priority:    model.PriorityMedium,
		DecidedBy:   &decidedBy,
		DecidedAt:   &decidedAt,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "rep-1",
			ModifiedBy: decidedBy,
		},
	}

	var response dto.BookingResponse
	response.FromModel(bookingModel)

	assert.Equal(t, bookingModel.ID, response.ID)
	assert.Equal(t, "2026-09-10", response.BookingDate)
	assert.Equal(t, "09:00", response.StartTime)
	assert.Equal(t, "11:00", response.EndTime)
	assert.Equal(t, model.StatusApproved, response.Status)
	assert.Equal(t, model.PriorityMedium, response.Priority)
	require.NotNil(t, response.DecidedBy)
	assert.Equal(t, decidedBy, *response.DecidedBy)
	require.NotNil(t, response.DecidedAt)
	assert.Nil(t, response.RejectionReason)
}

func TestStatsResponse_FromCounts(t *testing.T) {
	var response dto.StatsResponse
	response.FromCounts(map[string]int{
		model.StatusPending:   3,
		model.StatusApproved:  5,
		model.StatusCancelled: 1,
	})

	assert.Equal(t, 3, response.Pending)
	assert.Equal(t, 5, response.Approved)
	assert.Equal(t, 0, response.Rejected)
	assert.Equal(t, 1, response.Cancelled)
	assert.Equal(t, 9, response.Total)
}

func mustClock(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse("15:04", value)
	require.NoError(t, err)

	return parsed
}
