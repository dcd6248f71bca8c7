package repository

import (
	"campusroom/internal/domains/booking/model"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemory is a mutex-guarded in-memory implementation of the Booking store,
// used in tests instead of Postgres. It applies the same overlap and quota
// semantics as CreateChecked.
type InMemory struct {
	mu       sync.Mutex
	bookings []model.Booking

	// FailConflictCheck forces CreateChecked to fail before deciding, to
	// exercise the fail-closed path.
	FailConflictCheck bool
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (repo *InMemory) Insert(_ context.Context, booking model.Booking) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.bookings = append(repo.bookings, booking)

	return nil
}

func (repo *InMemory) CreateChecked(_ context.Context, booking model.Booking, quota QuotaCheck) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.FailConflictCheck {
		return failure.InternalError(fmt.Errorf("conflict check failed: %w", errStoreUnavailable)) // nolint:wrapcheck
	}

	usedMinutes := 0

	for _, existing := range repo.bookings {
		if existing.Status != model.StatusPending && existing.Status != model.StatusApproved {
			continue
		}

		if !existing.BookingDate.Equal(booking.BookingDate) {
			continue
		}

		if existing.RoomID == booking.RoomID &&
			model.Overlaps(existing.StartTime, existing.EndTime, booking.StartTime, booking.EndTime) {
			return failure.Conflict("room is already booked for the requested time") // nolint:wrapcheck
		}

		if existing.CourseID == booking.CourseID {
			usedMinutes += existing.DurationMinutes()
		}
	}

	if quota.Enforce && usedMinutes+booking.DurationMinutes() > quota.LimitMinutes {
		return failure.UnprocessableEntity(
			fmt.Sprintf("daily booking quota exceeded: %d of %d minutes already used", usedMinutes, quota.LimitMinutes),
		) // nolint:wrapcheck
	}

	repo.bookings = append(repo.bookings, booking)

	return nil
}

func (repo *InMemory) HasConflict(_ context.Context, roomID string, date, start, end time.Time, excludeBookingID string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.bookings {
		if existing.ID == excludeBookingID {
			continue
		}

		if existing.Status != model.StatusPending && existing.Status != model.StatusApproved {
			continue
		}

		if existing.RoomID == roomID && existing.BookingDate.Equal(date) &&
			model.Overlaps(existing.StartTime, existing.EndTime, start, end) {
			return true, nil
		}
	}

	return false, nil
}

func (repo *InMemory) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, booking := range repo.bookings {
		if matches(booking, filter) {
			return booking, nil
		}
	}

	return model.Booking{}, nil
}

func (repo *InMemory) GetAll(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []model.Booking{}

	for _, booking := range repo.bookings {
		if matches(booking, filter) {
			matched = append(matched, booking)
		}
	}

	if params.Page > 0 && params.Limit > 0 {
		offset := (params.Page - 1) * params.Limit
		if offset >= len(matched) {
			return []model.Booking{}, nil
		}

		end := offset + params.Limit
		if end > len(matched) {
			end = len(matched)
		}

		matched = matched[offset:end]
	}

	return matched, nil
}

func (repo *InMemory) Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	booking, err := repo.Get(ctx, filter)
	if err != nil {
		return false, err
	}

	return booking.ID != "", nil
}

func (repo *InMemory) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	count := 0

	for _, booking := range repo.bookings {
		if matches(booking, filter) {
			count++
		}
	}

	return count, nil
}

func (repo *InMemory) Update(_ context.Context, req map[string]any, filter gDto.FilterGroup) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.bookings {
		if !matches(repo.bookings[i], filter) {
			continue
		}

		applyFields(&repo.bookings[i], req)
	}

	return nil
}

func (repo *InMemory) Delete(_ context.Context, filter gDto.FilterGroup) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	kept := repo.bookings[:0]

	for _, booking := range repo.bookings {
		if !matches(booking, filter) {
			kept = append(kept, booking)
		}
	}

	repo.bookings = kept

	return nil
}

func (repo *InMemory) SumBookedMinutes(_ context.Context, courseID string, date time.Time) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	minutes := 0

	for _, booking := range repo.bookings {
		if booking.CourseID != courseID || !booking.BookingDate.Equal(date) {
			continue
		}

		if booking.Status == model.StatusPending || booking.Status == model.StatusApproved {
			minutes += booking.DurationMinutes()
		}
	}

	return minutes, nil
}

func (repo *InMemory) CountByStatus(_ context.Context, filter gDto.FilterGroup) (map[string]int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	counts := map[string]int{}

	for _, booking := range repo.bookings {
		if matches(booking, filter) {
			counts[booking.Status]++
		}
	}

	return counts, nil
}

func (repo *InMemory) GetActiveByRoomAndDate(_ context.Context, roomID string, date time.Time, statuses []string) ([]model.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []model.Booking{}

	for _, booking := range repo.bookings {
		if booking.RoomID != roomID || !booking.BookingDate.Equal(date) {
			continue
		}

		for _, status := range statuses {
			if booking.Status == status {
				matched = append(matched, booking)

				break
			}
		}
	}

	return matched, nil
}

var errStoreUnavailable = fmt.Errorf("store unavailable")

func applyFields(booking *model.Booking, req map[string]any) {
	for field, value := range req {
		switch field {
		case model.FieldStatus:
			if status, ok := value.(string); ok {
				booking.Status = status
			}
		case model.FieldDecidedBy:
			if decidedBy, ok := value.(string); ok {
				booking.DecidedBy = &decidedBy
			}
		case model.FieldDecidedAt:
			if decidedAt, ok := value.(time.Time); ok {
				booking.DecidedAt = &decidedAt
			}
		case model.FieldRejectionReason:
			if reason, ok := value.(string); ok {
				booking.RejectionReason = &reason
			}
		case model.FieldPurpose:
			if purpose, ok := value.(string); ok {
				booking.Purpose = purpose
			}
		case model.FieldNotes:
			if notes, ok := value.(string); ok {
				booking.Notes = notes
			}
		case "modified_by":
			if modifiedBy, ok := value.(string); ok {
				booking.ModifiedBy = modifiedBy
			}
		case "modified_at":
			if modifiedAt, ok := value.(time.Time); ok {
				booking.ModifiedAt = modifiedAt
			}
		}
	}
}

func matches(booking model.Booking, group gDto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	operator := group.Operator
	if operator == "" {
		operator = gDto.FilterGroupOperatorAnd
	}

	for _, entry := range group.Filters {
		var ok bool

		switch f := entry.(type) {
		case gDto.Filter:
			ok = matchesFilter(booking, f)
		case gDto.FilterGroup:
			ok = matches(booking, f)
		default:
			ok = false
		}

		if operator == gDto.FilterGroupOperatorAnd && !ok {
			return false
		}

		if operator == gDto.FilterGroupOperatorOr && ok {
			return true
		}
	}

	return operator == gDto.FilterGroupOperatorAnd
}

func matchesFilter(booking model.Booking, filter gDto.Filter) bool {
	value := fieldValue(booking, filter.Field)

	switch filter.Operator {
	case gDto.FilterOperatorEq:
		return equalValues(value, filter.Value)
	case gDto.FilterOperatorNotEq:
		return !equalValues(value, filter.Value)
	case gDto.FilterOperatorIn:
		candidates, ok := filter.Value.([]string)
		if !ok {
			return false
		}

		str, ok := value.(string)
		if !ok {
			return false
		}

		for _, candidate := range candidates {
			if candidate == str {
				return true
			}
		}

		return false
	case gDto.FilterOperatorGreaterEq, gDto.FilterOperatorGreater, gDto.FilterOperatorLessEq, gDto.FilterOperatorLess:
		left, leftOk := value.(time.Time)
		right, rightOk := filter.Value.(time.Time)

		if !leftOk || !rightOk {
			return false
		}

		switch filter.Operator {
		case gDto.FilterOperatorGreaterEq:
			return !left.Before(right)
		case gDto.FilterOperatorGreater:
			return left.After(right)
		case gDto.FilterOperatorLessEq:
			return !left.After(right)
		default:
			return left.Before(right)
		}
	default:
		return false
	}
}

func fieldValue(booking model.Booking, field string) any {
	switch field {
	case model.FieldID:
		return booking.ID
	case model.FieldRoomID:
		return booking.RoomID
	case model.FieldCourseID:
		return booking.CourseID
	case model.FieldBookedBy:
		return booking.BookedBy
	case model.FieldLecturerID:
		if booking.LecturerID == nil {
			return ""
		}

		return *booking.LecturerID
	case model.FieldStatus:
		return booking.Status
	case model.FieldPriority:
		return booking.Priority
	case model.FieldBookingDate:
		return booking.BookingDate
	default:
		return nil
	}
}

func equalValues(left, right any) bool {
	if leftTime, ok := left.(time.Time); ok {
		rightTime, ok := right.(time.Time)

		return ok && leftTime.Equal(rightTime)
	}

	return left == right
}
