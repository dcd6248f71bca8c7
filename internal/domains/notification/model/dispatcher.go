package model

import (
	"fmt"
	"slices"
)

// Dispatch maps a booking event to the notifications it should produce. It is
// a pure function: identifiers and timestamps are filled in by the caller
// before persisting.
//
// Routing rules:
//   - created: the booking administrator and the course approver are asked to
//     decide.
//   - approved / rejected: the booker learns the outcome.
//   - cancelled: the booking administrator is informed, plus the approver
//     unless the approver cancelled it themselves.
//
// Empty and duplicate recipients are dropped, so an event without an
// administrator configured still reaches the approver.
func Dispatch(event BookingEvent) []Notification {
	slot := fmt.Sprintf("%s %s-%s", event.BookingDate, event.StartTime, event.EndTime)

	switch event.Type {
	case EventBookingCreated:
		return buildAll(event, recipients(event.AdminID, event.ApproverID),
			"New booking request",
			fmt.Sprintf("%s requested %s for %s on %s (priority: %s)",
				event.BookedBy, event.RoomName, event.CourseName, slot, event.Priority),
		)
	case EventBookingApproved:
		return []Notification{build(event, event.BookedBy,
			"Booking approved",
			fmt.Sprintf("Your booking of %s for %s on %s has been approved", event.RoomName, event.CourseName, slot),
		)}
	case EventBookingRejected:
		message := fmt.Sprintf("Your booking of %s for %s on %s has been rejected", event.RoomName, event.CourseName, slot)
		if event.Reason != "" {
			message = fmt.Sprintf("%s: %s", message, event.Reason)
		}

		return []Notification{build(event, event.BookedBy, "Booking rejected", message)}
	case EventBookingCancelled:
		ids := []string{event.AdminID}
		if event.ApproverID != event.ActorID {
			ids = append(ids, event.ApproverID)
		}

		message := fmt.Sprintf("The booking of %s for %s on %s has been cancelled", event.RoomName, event.CourseName, slot)
		if event.Reason != "" {
			message = fmt.Sprintf("%s: %s", message, event.Reason)
		}

		return buildAll(event, recipients(ids...), "Booking cancelled", message)
	default:
		return nil
	}
}

// recipients drops empty and duplicate identifiers, preserving order.
func recipients(ids ...string) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}

		out = append(out, id)
	}

	return out
}

func buildAll(event BookingEvent, recipientIDs []string, title, message string) []Notification {
	if len(recipientIDs) == 0 {
		return nil
	}

	notifications := make([]Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		notifications = append(notifications, build(event, id, title, message))
	}

	return notifications
}

func build(event BookingEvent, recipientID, title, message string) Notification {
	return Notification{
		RecipientID: recipientID,
		BookingID:   event.BookingID,
		EventType:   event.Type,
		Title:       title,
		Message:     message,
	}
}
