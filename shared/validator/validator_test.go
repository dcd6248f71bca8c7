package validator_test

import (
	"campusroom/shared/validator"
	"strings"
	"testing"
)

type createBookingPayload struct {
	RoomID      string `json:"room_id"      validate:"required"`
	CourseID    string `json:"course_id"    validate:"required"`
	BookingDate string `json:"booking_date" validate:"required,calendardate"`
	StartTime   string `json:"start_time"   validate:"required,wallclock"`
	EndTime     string `json:"end_time"     validate:"required,wallclock"`
	Purpose     string `json:"purpose"      validate:"required,max=255"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid payload",
			body: `{
				"room_id": "room-101",
				"course_id": "course-1",
				"booking_date": "2025-06-15",
				"start_time": "09:00",
				"end_time": "10:00",
				"purpose": "Midterm review"
			}`,
			wantErr: false,
		},
		{
			name:    "malformed json",
			body:    `{"room_id": }`,
			wantErr: true,
		},
		{
			name: "missing required field",
			body: `{
				"room_id": "room-101",
				"booking_date": "2025-06-15",
				"start_time": "09:00",
				"end_time": "10:00",
				"purpose": "Midterm review"
			}`,
			wantErr: true,
		},
		{
			name: "invalid date format",
			body: `{
				"room_id": "room-101",
				"course_id": "course-1",
				"booking_date": "15/06/2025",
				"start_time": "09:00",
				"end_time": "10:00",
				"purpose": "Midterm review"
			}`,
			wantErr: true,
		},
		{
			name: "invalid wall clock time",
			body: `{
				"room_id": "room-101",
				"course_id": "course-1",
				"booking_date": "2025-06-15",
				"start_time": "25:00",
				"end_time": "10:00",
				"purpose": "Midterm review"
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := createBookingPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		tag     string
		wantErr bool
	}{
		{
			name:    "valid wallclock",
			value:   "08:30",
			tag:     "wallclock",
			wantErr: false,
		},
		{
			name:    "invalid wallclock minutes",
			value:   "08:75",
			tag:     "wallclock",
			wantErr: true,
		},
		{
			name:    "valid calendar date",
			value:   "2025-12-01",
			tag:     "calendardate",
			wantErr: false,
		},
		{
			name:    "invalid calendar month",
			value:   "2025-13-01",
			tag:     "calendardate",
			wantErr: true,
		},
		{
			name:    "required empty string",
			value:   "",
			tag:     "required",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.value, tt.tag)

			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
