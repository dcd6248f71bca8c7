package model_test

import (
	"campusroom/internal/domains/notification/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEvent(eventType string) model.BookingEvent {
	return model.BookingEvent{
		Type:        eventType,
		BookingID:   "booking-1",
		RoomName:    "Lecture Hall A",
		CourseName:  "Distributed Systems",
		BookedBy:    "rep-1",
		ApproverID:  "lecturer-1",
		AdminID:     "admin-1",
		ActorID:     "rep-1",
		BookingDate: "2026-09-10",
		StartTime:   "10:00",
		EndTime:     "12:00",
		Priority:    "medium",
	}
}

func recipientIDs(notifications []model.Notification) []string {
	ids := make([]string, len(notifications))
	for i, notification := range notifications {
		ids[i] = notification.RecipientID
	}

	return ids
}

func TestDispatch_Created(t *testing.T) {
	notifications := model.Dispatch(baseEvent(model.EventBookingCreated))

	require.Len(t, notifications, 2)
	assert.Equal(t, []string{"admin-1", "lecturer-1"}, recipientIDs(notifications))

	for _, notification := range notifications {
		assert.Equal(t, "New booking request", notification.Title)
		assert.Equal(t, model.EventBookingCreated, notification.EventType)
		assert.Contains(t, notification.Message, "Lecture Hall A")
		assert.Contains(t, notification.Message, "priority: medium")
		assert.False(t, notification.Read)
	}
}

func TestDispatch_CreatedWithoutApprover(t *testing.T) {
	event := baseEvent(model.EventBookingCreated)
	event.ApproverID = ""

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "admin-1", notifications[0].RecipientID)
}

func TestDispatch_CreatedAdminIsApprover(t *testing.T) {
	event := baseEvent(model.EventBookingCreated)
	event.ApproverID = "admin-1"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "admin-1", notifications[0].RecipientID)
}

func TestDispatch_CreatedWithoutRecipients(t *testing.T) {
	event := baseEvent(model.EventBookingCreated)
	event.AdminID = ""
	event.ApproverID = ""

	assert.Empty(t, model.Dispatch(event))
}

func TestDispatch_Approved(t *testing.T) {
	event := baseEvent(model.EventBookingApproved)
	event.ActorID = "lecturer-1"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "rep-1", notifications[0].RecipientID)
	assert.Equal(t, "Booking approved", notifications[0].Title)
}

func TestDispatch_RejectedWithReason(t *testing.T) {
	event := baseEvent(model.EventBookingRejected)
	event.ActorID = "lecturer-1"
	event.Reason = "room under maintenance"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "rep-1", notifications[0].RecipientID)
	assert.Contains(t, notifications[0].Message, "room under maintenance")
}

func TestDispatch_RejectedWithoutReason(t *testing.T) {
	event := baseEvent(model.EventBookingRejected)
	event.ActorID = "lecturer-1"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.NotContains(t, notifications[0].Message, ": :")
}

func TestDispatch_CancelledByBooker(t *testing.T) {
	event := baseEvent(model.EventBookingCancelled)
	event.Reason = "Cancelled by user"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 2)
	assert.Equal(t, []string{"admin-1", "lecturer-1"}, recipientIDs(notifications))
	assert.Contains(t, notifications[0].Message, "Cancelled by user")
}

func TestDispatch_CancelledByApprover(t *testing.T) {
	event := baseEvent(model.EventBookingCancelled)
	event.ActorID = "lecturer-1"

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "admin-1", notifications[0].RecipientID)
}

func TestDispatch_CancelledWithoutAdmin(t *testing.T) {
	event := baseEvent(model.EventBookingCancelled)
	event.AdminID = ""

	notifications := model.Dispatch(event)

	require.Len(t, notifications, 1)
	assert.Equal(t, "lecturer-1", notifications[0].RecipientID)
}

func TestDispatch_UnknownEventType(t *testing.T) {
	assert.Empty(t, model.Dispatch(model.BookingEvent{Type: "booking.someday"}))
}
