package model

import (
	"campusroom/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldCourseID        = "course_id"
	FieldBookedBy        = "booked_by"
	FieldLecturerID      = "lecturer_id"
	FieldBookingDate     = "booking_date"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldPurpose         = "purpose"
	FieldNotes           = "notes"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldDecidedBy       = "decided_by"
	FieldDecidedAt       = "decided_at"
	FieldRejectionReason = "rejection_reason"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityNormal = "normal"
)

// transitions is the booking state machine. Rejected and cancelled are
// terminal.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// ActiveStatuses are the statuses that occupy a room slot and count against
// the daily quota.
func ActiveStatuses() []string {
	return []string{StatusPending, StatusApproved}
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back bookings sharing a boundary do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// PriorityFor derives the fixed priority from how far ahead the booking date
// lies. It never changes after creation.
func PriorityFor(bookingDate, today time.Time) string {
	daysAhead := int(bookingDate.Sub(today).Hours() / 24)

	switch {
	case daysAhead <= 1:
		return PriorityUrgent
	case daysAhead <= 3:
		return PriorityHigh
	case daysAhead <= 7:
		return PriorityMedium
	default:
		return PriorityNormal
	}
}

type Booking struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	CourseID        string     `db:"course_id"`
	BookedBy        string     `db:"booked_by"`
	LecturerID      *string    `db:"lecturer_id"`
	BookingDate     time.Time  `db:"booking_date"`
	StartTime       time.Time  `db:"start_time"`
	EndTime         time.Time  `db:"end_time"`
	Purpose         string     `db:"purpose"`
	Notes           string     `db:"notes"`
	Status          string     `db:"status"`
	Priority        string     `db:"priority"`
	DecidedBy       *string    `db:"decided_by"`
	DecidedAt       *time.Time `db:"decided_at"`
	RejectionReason *string    `db:"rejection_reason"`
	model.Metadata
}

// DurationMinutes is the booked span in whole minutes.
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime).Minutes())
}
