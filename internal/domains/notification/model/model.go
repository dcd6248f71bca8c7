package model

import (
	gModel "campusroom/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"
)

const (
	FieldID          = "id"
	FieldRecipientID = "recipient_id"
	FieldBookingID   = "booking_id"
	FieldEventType   = "event_type"
	FieldTitle       = "title"
	FieldMessage     = "message"
	FieldRead        = "read"
)

// Event types published to the booking topic when a booking changes state.
const (
	EventBookingCreated   = "booking.created"
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent carries everything the dispatcher needs to build notifications
// without reading from storage.
type BookingEvent struct {
	Type        string `json:"type"`
	BookingID   string `json:"booking_id"`
	RoomName    string `json:"room_name"`
	CourseName  string `json:"course_name"`
	BookedBy    string `json:"booked_by"`
	ApproverID  string `json:"approver_id"`
	AdminID     string `json:"admin_id"`
	ActorID     string `json:"actor_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Priority    string `json:"priority,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type Notification struct {
	ID          string `db:"id"`
	RecipientID string `db:"recipient_id"`
	BookingID   string `db:"booking_id"`
	EventType   string `db:"event_type"`
	Title       string `db:"title"`
	Message     string `db:"message"`
	Read        bool   `db:"read"`
	gModel.Metadata
}
