package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campusroom/config"
	"campusroom/infras/kafka"
	kafkaMocks "campusroom/infras/kafka/mocks"
	"campusroom/infras/otel/mocks"
	bookingMocks "campusroom/internal/domains/booking/mocks"
	"campusroom/internal/domains/booking/model"
	"campusroom/internal/domains/booking/model/dto"
	"campusroom/internal/domains/booking/repository"
	"campusroom/internal/domains/booking/service"
	courseMocks "campusroom/internal/domains/course/mocks"
	courseModel "campusroom/internal/domains/course/model"
	nModel "campusroom/internal/domains/notification/model"
	roomMocks "campusroom/internal/domains/room/mocks"
	roomModel "campusroom/internal/domains/room/model"
	"campusroom/permissions"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"campusroom/shared/timezone"
)

// stubCache always misses so tests never depend on goroutine-ordered cache
// writes.
type stubCache struct{}

func (stubCache) Save(context.Context, string, any, int) error { return nil }
func (stubCache) Get(context.Context, string, any) error       { return assert.AnError }
func (stubCache) Delete(context.Context, string) error         { return nil }
func (stubCache) Clear(context.Context, string) error          { return nil }

type fixture struct {
	repo       *bookingMocks.MockBooking
	roomRepo   *roomMocks.MockRoom
	courseRepo *courseMocks.MockCourse
	kafka      *kafkaMocks.MockClient
	svc        service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Booking.DailyQuotaMinutes = 120
	cfg.Booking.DayStartHour = 8
	cfg.Booking.DayEndHour = 12
	cfg.Booking.SlotMinutes = 60
	cfg.Booking.AdminUserID = "admin-1"
	cfg.Kafka.BookingTopic = "booking-events"

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		roomRepo:   roomMocks.NewMockRoom(ctrl),
		courseRepo: courseMocks.NewMockCourse(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
	}

	f.svc = service.New(f.repo, f.roomRepo, f.courseRepo, f.kafka, cfg, stubCache{}, mocks.NewOtel())

	return f
}

var (
	repPrincipal      = permissions.Principal{UserID: "rep-1", Role: permissions.RoleClassRep, CourseID: "course-1"}
	lecturerPrincipal = permissions.Principal{UserID: "lecturer-1", Role: permissions.RoleLecturer}
	adminPrincipal    = permissions.Principal{UserID: "admin-1", Role: permissions.RoleAdmin}
	studentPrincipal  = permissions.Principal{UserID: "student-1", Role: permissions.RoleStudent}
)

func activeRoom() roomModel.Room {
	return roomModel.Room{ID: "room-1", Name: "Lecture Hall A", Active: true}
}

func activeCourse() courseModel.Course {
	return courseModel.Course{ID: "course-1", Name: "Distributed Systems", LecturerID: "lecturer-1", Active: true}
}

func createRequest(daysAhead int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookingDate: timezone.Today().AddDate(0, 0, daysAhead).Format(constant.CalendarDayFormat),
		StartTime:   "10:00",
		EndTime:     "12:00",
		Purpose:     "weekly tutorial",
	}
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:          "booking-1",
		RoomID:      "room-1",
		CourseID:    "course-1",
		BookedBy:    "rep-1",
		BookingDate: timezone.Today().AddDate(0, 0, 5),
		StartTime:   mustClock("10:00"),
		EndTime:     mustClock("12:00"),
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
	}
}

func mustClock(value string) time.Time {
	parsed, err := time.Parse(constant.WallClockFormat, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestBookingService_Create(t *testing.T) {
	t.Run("class rep creates a booking with quota enforced", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)

		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking, quota repository.QuotaCheck) error {
				assert.True(t, quota.Enforce)
				assert.Equal(t, 120, quota.LimitMinutes)
				assert.Equal(t, model.StatusPending, booking.Status)
				assert.Equal(t, model.PriorityMedium, booking.Priority)
				assert.Equal(t, "rep-1", booking.BookedBy)

				require.NotNil(t, booking.LecturerID)
				assert.Equal(t, "lecturer-1", *booking.LecturerID)

				return nil
			})

		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking-events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)

				event, ok := messages[0].Value.(nModel.BookingEvent)
				require.True(t, ok)
				assert.Equal(t, nModel.EventBookingCreated, event.Type)
				assert.Equal(t, "admin-1", event.AdminID)
				assert.Equal(t, "lecturer-1", event.ApproverID)

				return nil
			})

		res, err := f.svc.Create(context.Background(), repPrincipal, createRequest(5))
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, model.PriorityMedium, res.Priority)
		require.NotNil(t, res.LecturerID)
		assert.Equal(t, "lecturer-1", *res.LecturerID)
	})

	t.Run("admin creates without quota enforcement", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)

		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.Booking, quota repository.QuotaCheck) error {
				assert.False(t, quota.Enforce)

				return nil
			})

		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		_, err := f.svc.Create(context.Background(), adminPrincipal, createRequest(5))
		assert.NoError(t, err)
	})

	t.Run("tomorrow is urgent", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.repo.EXPECT().CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		res, err := f.svc.Create(context.Background(), repPrincipal, createRequest(1))
		require.NoError(t, err)
		assert.Equal(t, model.PriorityUrgent, res.Priority)
	})

	t.Run("student may not create", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), studentPrincipal, createRequest(5))
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("class rep may not book another course", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest(5)
		req.CourseID = "course-2"

		_, err := f.svc.Create(context.Background(), repPrincipal, req)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("start must precede end", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest(5)
		req.StartTime = "12:00"
		req.EndTime = "10:00"

		_, err := f.svc.Create(context.Background(), repPrincipal, req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("past dates rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), repPrincipal, createRequest(-1))
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := f.svc.Create(context.Background(), repPrincipal, createRequest(5))
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("inactive room rejected", func(t *testing.T) {
		f := newFixture(t)

		room := activeRoom()
		room.Active = false

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)

		_, err := f.svc.Create(context.Background(), repPrincipal, createRequest(5))
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("overlap surfaces as conflict", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.Conflict("room is already booked for the requested time"))

		_, err := f.svc.Create(context.Background(), repPrincipal, createRequest(5))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("quota exhaustion surfaces as unprocessable", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.UnprocessableEntity("daily booking quota exceeded: 120 of 120 minutes already used"))

		_, err := f.svc.Create(context.Background(), repPrincipal, createRequest(5))
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestBookingService_Decide(t *testing.T) {
	t.Run("lecturer approves a pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])
				assert.Equal(t, "lecturer-1", fields[model.FieldDecidedBy])
				assert.NotNil(t, fields[model.FieldDecidedAt])
				assert.NotContains(t, fields, model.FieldRejectionReason)

				return nil
			})

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Decide(context.Background(), lecturerPrincipal, "booking-1", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.NoError(t, err)
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
				assert.Equal(t, "room under maintenance", fields[model.FieldRejectionReason])

				return nil
			})

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Decide(context.Background(), lecturerPrincipal, "booking-1", dto.DecideBookingRequest{
			Decision: model.StatusRejected,
			Reason:   "room under maintenance",
		})
		assert.NoError(t, err)
	})

	t.Run("lecturer decides a booking outside their own course", func(t *testing.T) {
		f := newFixture(t)

		course := activeCourse()
		course.LecturerID = "lecturer-2"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(course, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Decide(context.Background(), lecturerPrincipal, "booking-1", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.NoError(t, err)
	})

	t.Run("admin decides regardless of lecturer", func(t *testing.T) {
		f := newFixture(t)

		course := activeCourse()
		course.LecturerID = "lecturer-2"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(course, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Decide(context.Background(), adminPrincipal, "booking-1", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.NoError(t, err)
	})

	t.Run("class rep may not decide", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Decide(context.Background(), repPrincipal, "booking-1", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("deciding a decided booking conflicts", func(t *testing.T) {
		f := newFixture(t)

		approved := pendingBooking()
		approved.Status = model.StatusApproved

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)

		err := f.svc.Decide(context.Background(), lecturerPrincipal, "booking-1", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := f.svc.Decide(context.Background(), lecturerPrincipal, "missing", dto.DecideBookingRequest{Decision: model.StatusApproved})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("booker cancels their own pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
				assert.Equal(t, "Cancelled by user", fields[model.FieldRejectionReason])

				return nil
			})

		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)

		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking-events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)

				event, ok := messages[0].Value.(nModel.BookingEvent)
				require.True(t, ok)
				assert.Equal(t, "admin-1", event.AdminID)
				assert.Equal(t, "Cancelled by user", event.Reason)

				return nil
			})

		err := f.svc.Cancel(context.Background(), repPrincipal, "booking-1", dto.CancelBookingRequest{})
		assert.NoError(t, err)
	})

	t.Run("explicit cancellation reason is stored", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "class moved online", fields[model.FieldRejectionReason])

				return nil
			})

		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Cancel(context.Background(), repPrincipal, "booking-1", dto.CancelBookingRequest{Reason: "class moved online"})
		assert.NoError(t, err)
	})

	t.Run("admin cancels an approved booking of someone else", func(t *testing.T) {
		f := newFixture(t)

		approved := pendingBooking()
		approved.Status = model.StatusApproved

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.courseRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeCourse(), nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(nil)

		err := f.svc.Cancel(context.Background(), adminPrincipal, "booking-1", dto.CancelBookingRequest{})
		assert.NoError(t, err)
	})

	t.Run("class rep may not cancel someone else's booking", func(t *testing.T) {
		f := newFixture(t)

		other := pendingBooking()
		other.BookedBy = "rep-2"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(other, nil)

		err := f.svc.Cancel(context.Background(), repPrincipal, "booking-1", dto.CancelBookingRequest{})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("terminal bookings cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)

		rejected := pendingBooking()
		rejected.Status = model.StatusRejected

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rejected, nil)

		err := f.svc.Cancel(context.Background(), adminPrincipal, "booking-1", dto.CancelBookingRequest{})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("booker reads their own booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		res, err := f.svc.Get(context.Background(), repPrincipal, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("student may not read a booking outside their course", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		_, err := f.svc.Get(context.Background(), studentPrincipal, "booking-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("student reads a booking of their own course", func(t *testing.T) {
		f := newFixture(t)

		classmate := permissions.Principal{UserID: "student-2", Role: permissions.RoleStudent, CourseID: "course-1"}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		res, err := f.svc.Get(context.Background(), classmate, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("lecturer reads any booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		_, err := f.svc.Get(context.Background(), lecturerPrincipal, "booking-1")
		assert.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), adminPrincipal, "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	var hasFieldFilter func(filter gDto.FilterGroup, field string, value any) bool
	hasFieldFilter = func(filter gDto.FilterGroup, field string, value any) bool {
		for _, entry := range filter.Filters {
			switch f := entry.(type) {
			case gDto.Filter:
				if f.Field == field && f.Value == value {
					return true
				}
			case gDto.FilterGroup:
				if hasFieldFilter(f, field, value) {
					return true
				}
			}
		}

		return false
	}

	t.Run("class rep results are scoped to their course and own bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.True(t, hasFieldFilter(filter, model.FieldCourseID, "course-1"))
				assert.True(t, hasFieldFilter(filter, model.FieldBookedBy, "rep-1"))

				return 1, nil
			})

		f.repo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return([]model.Booking{pendingBooking()}, nil)

		res, err := f.svc.GetAll(context.Background(), repPrincipal, params, gDto.FilterGroup{})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Bookings, 1)
	})

	t.Run("student results are scoped to their course and own bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.True(t, hasFieldFilter(filter, model.FieldBookedBy, "student-1"))

				return 0, nil
			})

		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{}, nil)

		_, err := f.svc.GetAll(context.Background(), studentPrincipal, params, gDto.FilterGroup{})
		assert.NoError(t, err)
	})

	t.Run("admin results are unscoped", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)

				return 0, nil
			})

		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{}, nil)

		_, err := f.svc.GetAll(context.Background(), adminPrincipal, params, gDto.FilterGroup{})
		assert.NoError(t, err)
	})
}

func TestBookingService_Stats(t *testing.T) {
	t.Run("lecturer reads stats", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().CountByStatus(gomock.Any(), gomock.Any()).Return(map[string]int{
			model.StatusPending:  2,
			model.StatusApproved: 3,
			model.StatusRejected: 1,
		}, nil)

		res, err := f.svc.Stats(context.Background(), lecturerPrincipal, gDto.FilterGroup{})
		require.NoError(t, err)
		assert.Equal(t, 6, res.Total)
		assert.Equal(t, 2, res.Pending)
		assert.Equal(t, 3, res.Approved)
		assert.Equal(t, 0, res.Cancelled)
	})

	t.Run("class rep may not read stats", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Stats(context.Background(), repPrincipal, gDto.FilterGroup{})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestBookingService_Availability(t *testing.T) {
	date := timezone.Today().AddDate(0, 0, 5).Format(constant.CalendarDayFormat)

	t.Run("approved bookings block their slots", func(t *testing.T) {
		f := newFixture(t)

		approved := pendingBooking()
		approved.Status = model.StatusApproved
		approved.StartTime = mustClock("09:00")
		approved.EndTime = mustClock("11:00")

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.repo.EXPECT().
			GetActiveByRoomAndDate(gomock.Any(), "room-1", gomock.Any(), []string{model.StatusApproved}).
			Return([]model.Booking{approved}, nil)

		res, err := f.svc.Availability(context.Background(), "room-1", date)
		require.NoError(t, err)
		require.Len(t, res.Slots, 4)

		assert.Equal(t, dto.Slot{StartTime: "08:00", EndTime: "09:00", Available: true}, res.Slots[0])
		assert.Equal(t, dto.Slot{StartTime: "09:00", EndTime: "10:00", Available: false}, res.Slots[1])
		assert.Equal(t, dto.Slot{StartTime: "10:00", EndTime: "11:00", Available: false}, res.Slots[2])
		assert.Equal(t, dto.Slot{StartTime: "11:00", EndTime: "12:00", Available: true}, res.Slots[3])
	})

	t.Run("empty day is fully available", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.repo.EXPECT().
			GetActiveByRoomAndDate(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return([]model.Booking{}, nil)

		res, err := f.svc.Availability(context.Background(), "room-1", date)
		require.NoError(t, err)

		for _, slot := range res.Slots {
			assert.True(t, slot.Available)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Availability(context.Background(), "room-1", "09/10/2026")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_RemainingQuota(t *testing.T) {
	date := timezone.Today().AddDate(0, 0, 5).Format(constant.CalendarDayFormat)

	t.Run("remaining minutes reported", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().SumBookedMinutes(gomock.Any(), "course-1", gomock.Any()).Return(90, nil)

		res, err := f.svc.RemainingQuota(context.Background(), repPrincipal, "course-1", date)
		require.NoError(t, err)
		assert.Equal(t, 120, res.QuotaMinutes)
		assert.Equal(t, 90, res.UsedMinutes)
		assert.Equal(t, 30, res.RemainingMinutes)
	})

	t.Run("remaining never goes negative", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().SumBookedMinutes(gomock.Any(), "course-1", gomock.Any()).Return(150, nil)

		res, err := f.svc.RemainingQuota(context.Background(), adminPrincipal, "course-1", date)
		require.NoError(t, err)
		assert.Equal(t, 0, res.RemainingMinutes)
	})

	t.Run("class rep may not inspect another course", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RemainingQuota(context.Background(), repPrincipal, "course-2", date)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
