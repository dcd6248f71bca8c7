package dto

import (
	"time"

	"campusroom/internal/domains/booking/model"
	"campusroom/shared"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	gModel "campusroom/shared/model"
	"campusroom/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID      string `json:"room_id"      validate:"required,uuid"`
	CourseID    string `json:"course_id"    validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required,calendardate"`
	StartTime   string `json:"start_time"   validate:"required,wallclock"`
	EndTime     string `json:"end_time"     validate:"required,wallclock"`
	Purpose     string `json:"purpose"      validate:"required,max=200"`
	Notes       string `json:"notes"        validate:"omitempty,max=500"`
}

// ToModel parses the request into a pending booking. Priority is derived from
// the lead time and fixed for the lifetime of the booking. The booking date is
// parsed in the application timezone so that "today" means the same day for
// the caller and for the past-date check.
func (c *CreateBookingRequest) ToModel(user string, today time.Time) (model.Booking, error) {
	bookingDate, err := timezone.Parse(constant.CalendarDayFormat, c.BookingDate)
	if err != nil {
		return model.Booking{}, err
	}

	startTime, err := time.Parse(constant.WallClockFormat, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endTime, err := time.Parse(constant.WallClockFormat, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		CourseID:    c.CourseID,
		BookedBy:    user,
		BookingDate: bookingDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Purpose:     c.Purpose,
		Notes:       c.Notes,
		Status:      model.StatusPending,
		Priority:    model.PriorityFor(bookingDate, today),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type DecideBookingRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Reason   string `json:"reason"   validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	CourseID        string  `json:"course_id"`
	BookedBy        string  `json:"booked_by"`
	LecturerID      *string `json:"lecturer_id,omitempty"`
	BookingDate     string  `json:"booking_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Purpose         string  `json:"purpose"`
	Notes           string  `json:"notes,omitempty"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.CourseID = model.CourseID
	r.BookedBy = model.BookedBy
	r.LecturerID = model.LecturerID
	r.BookingDate = model.BookingDate.Format(constant.CalendarDayFormat)
	r.StartTime = model.StartTime.Format(constant.WallClockFormat)
	r.EndTime = model.EndTime.Format(constant.WallClockFormat)
	r.Purpose = model.Purpose
	r.Notes = model.Notes
	r.Status = model.Status
	r.Priority = model.Priority
	r.DecidedBy = model.DecidedBy
	r.RejectionReason = model.RejectionReason

	if model.DecidedAt != nil {
		decidedAt := model.DecidedAt.Format(constant.DateFormat)
		r.DecidedAt = &decidedAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Slot is a bookable window on a room's daily grid.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	RoomID      string `json:"room_id"`
	BookingDate string `json:"booking_date"`
	Slots       []Slot `json:"slots"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

func (r *StatsResponse) FromCounts(counts map[string]int) {
	r.Pending = counts[model.StatusPending]
	r.Approved = counts[model.StatusApproved]
	r.Rejected = counts[model.StatusRejected]
	r.Cancelled = counts[model.StatusCancelled]
	r.Total = r.Pending + r.Approved + r.Rejected + r.Cancelled
}

type QuotaResponse struct {
	CourseID         string `json:"course_id"`
	BookingDate      string `json:"booking_date"`
	QuotaMinutes     int    `json:"quota_minutes"`
	UsedMinutes      int    `json:"used_minutes"`
	RemainingMinutes int    `json:"remaining_minutes"`
}
