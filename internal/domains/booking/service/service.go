package service

import (
	"campusroom/config"
	"campusroom/infras/kafka"
	"campusroom/infras/otel"
	"campusroom/internal/domains/booking/model"
	"campusroom/internal/domains/booking/model/dto"
	"campusroom/internal/domains/booking/repository"
	courseModel "campusroom/internal/domains/course/model"
	courseRepository "campusroom/internal/domains/course/repository"
	nModel "campusroom/internal/domains/notification/model"
	roomModel "campusroom/internal/domains/room/model"
	roomRepository "campusroom/internal/domains/room/repository"
	"campusroom/permissions"
	"campusroom/shared"
	"campusroom/shared/cache"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"campusroom/shared/timezone"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheStatsBooking  = "booking:stats"
	cacheAvailability  = "booking:availability"
)

type Booking interface {
	Create(ctx context.Context, principal permissions.Principal, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Decide(ctx context.Context, principal permissions.Principal, id string, req dto.DecideBookingRequest) error
	Cancel(ctx context.Context, principal permissions.Principal, id string, req dto.CancelBookingRequest) error
	Get(ctx context.Context, principal permissions.Principal, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, principal permissions.Principal, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Stats(ctx context.Context, principal permissions.Principal, filter gDto.FilterGroup) (dto.StatsResponse, error)
	Availability(ctx context.Context, roomID, date string) (dto.AvailabilityResponse, error)
	RemainingQuota(ctx context.Context, principal permissions.Principal, courseID, date string) (dto.QuotaResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepository.Room
	courseRepo courseRepository.Course
	kafka      kafka.Client
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	courseRepo courseRepository.Course,
	kafkaClient kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		courseRepo: courseRepo,
		kafka:      kafkaClient,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, principal permissions.Principal, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = principal.Require(permissions.ActionCreateBooking); err != nil {
		return res, err
	}

	// Class representatives book only for their own course. Admins are not
	// bound to a course.
	if principal.Role == permissions.RoleClassRep && principal.CourseID != req.CourseID {
		return res, failure.Forbidden("class representatives can only book for their own course") // nolint:wrapcheck
	}

	booking, err := req.ToModel(principal.UserID, timezone.Today())
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !booking.StartTime.Before(booking.EndTime) {
		return res, failure.BadRequestFromString("start time must be before end time") // nolint:wrapcheck
	}

	if booking.BookingDate.Before(timezone.Today()) {
		return res, failure.BadRequestFromString("booking date cannot be in the past") // nolint:wrapcheck
	}

	room, err := s.activeRoom(ctx, booking.RoomID)
	if err != nil {
		return res, err
	}

	course, err := s.activeCourse(ctx, booking.CourseID)
	if err != nil {
		return res, err
	}

	if course.LecturerID != "" {
		booking.LecturerID = &course.LecturerID
	}

	quota := repository.QuotaCheck{
		Enforce:      principal.Role == permissions.RoleClassRep,
		LimitMinutes: s.cfg.Booking.DailyQuotaMinutes,
	}

	if err = s.repo.CreateChecked(ctx, booking, quota); err != nil {
		log.Error().Err(err).Str("roomID", booking.RoomID).Msg("failed to create booking")

		return res, err // nolint:wrapcheck
	}

	s.publishEvent(ctx, nModel.BookingEvent{
		Type:        nModel.EventBookingCreated,
		BookingID:   booking.ID,
		RoomName:    room.Name,
		CourseName:  course.Name,
		BookedBy:    booking.BookedBy,
		ApproverID:  course.LecturerID,
		AdminID:     s.cfg.Booking.AdminUserID,
		ActorID:     principal.UserID,
		BookingDate: booking.BookingDate.Format(constant.CalendarDayFormat),
		StartTime:   booking.StartTime.Format(constant.WallClockFormat),
		EndTime:     booking.EndTime.Format(constant.WallClockFormat),
		Priority:    booking.Priority,
	})

	s.invalidateCaches(ctx, booking.ID, booking.RoomID, booking.BookingDate)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Decide(ctx context.Context, principal permissions.Principal, id string, req dto.DecideBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Decide")
	defer scope.End()
	defer scope.TraceIfError(err)

	action := permissions.ActionApproveBooking
	if req.Decision == model.StatusRejected {
		action = permissions.ActionRejectBooking
	}

	if err = principal.Require(action); err != nil {
		return err
	}

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.courseByID(ctx, booking.CourseID)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, req.Decision) {
		return failure.Conflict(fmt.Sprintf("booking cannot go from %s to %s", booking.Status, req.Decision)) // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        req.Decision,
		model.FieldDecidedBy:     principal.UserID,
		model.FieldDecidedAt:     now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: principal.UserID,
	}

	eventType := nModel.EventBookingApproved
	if req.Decision == model.StatusRejected {
		eventType = nModel.EventBookingRejected
		fields[model.FieldRejectionReason] = req.Reason
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	s.publishEvent(ctx, nModel.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		RoomName:    room.Name,
		CourseName:  course.Name,
		BookedBy:    booking.BookedBy,
		ApproverID:  course.LecturerID,
		AdminID:     s.cfg.Booking.AdminUserID,
		ActorID:     principal.UserID,
		BookingDate: booking.BookingDate.Format(constant.CalendarDayFormat),
		StartTime:   booking.StartTime.Format(constant.WallClockFormat),
		EndTime:     booking.EndTime.Format(constant.WallClockFormat),
		Reason:      req.Reason,
	})

	s.invalidateCaches(ctx, booking.ID, booking.RoomID, booking.BookingDate)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, principal permissions.Principal, id string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return err
	}

	action := permissions.ActionCancelAny
	if booking.BookedBy == principal.UserID {
		action = permissions.ActionCancelOwn
	}

	if err = principal.Require(action); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return failure.Conflict(fmt.Sprintf("booking cannot go from %s to %s", booking.Status, model.StatusCancelled)) // nolint:wrapcheck
	}

	reason := req.Reason
	if reason == "" {
		reason = "Cancelled by user"
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:          model.StatusCancelled,
		model.FieldRejectionReason: reason,
		constant.FieldModifiedAt:   now,
		constant.FieldModifiedBy:   principal.UserID,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	course, err := s.courseByID(ctx, booking.CourseID)
	if err != nil {
		return err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	s.publishEvent(ctx, nModel.BookingEvent{
		Type:        nModel.EventBookingCancelled,
		BookingID:   booking.ID,
		RoomName:    room.Name,
		CourseName:  course.Name,
		BookedBy:    booking.BookedBy,
		ApproverID:  course.LecturerID,
		AdminID:     s.cfg.Booking.AdminUserID,
		ActorID:     principal.UserID,
		BookingDate: booking.BookingDate.Format(constant.CalendarDayFormat),
		StartTime:   booking.StartTime.Format(constant.WallClockFormat),
		EndTime:     booking.EndTime.Format(constant.WallClockFormat),
		Reason:      reason,
	})

	s.invalidateCaches(ctx, booking.ID, booking.RoomID, booking.BookingDate)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, principal permissions.Principal, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if err = s.checkReadable(principal, res.CourseID, res.BookedBy); err != nil {
			return dto.BookingResponse{}, err
		}

		return res, nil
	}

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.checkReadable(principal, booking.CourseID, booking.BookedBy); err != nil {
		return dto.BookingResponse{}, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, principal permissions.Principal, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = scopedFilter(principal, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Stats(ctx context.Context, principal permissions.Principal, filter gDto.FilterGroup) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = principal.Require(permissions.ActionViewStats); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheStatsBooking, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	counts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings by status")

		return res, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	res.FromCounts(counts)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, roomID, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookingDate, err := timezone.Parse(constant.CalendarDayFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("booking date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheAvailability, roomID, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	if _, err = s.activeRoom(ctx, roomID); err != nil {
		return res, err
	}

	booked, err := s.repo.GetActiveByRoomAndDate(ctx, roomID, bookingDate, []string{model.StatusApproved})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for availability")

		return res, fmt.Errorf("failed to get bookings for availability: %w", err)
	}

	res = dto.AvailabilityResponse{
		RoomID:      roomID,
		BookingDate: date,
		Slots:       s.buildSlots(booked),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RemainingQuota(ctx context.Context, principal permissions.Principal, courseID, date string) (res dto.QuotaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemainingQuota")
	defer scope.End()
	defer scope.TraceIfError(err)

	if principal.Role == permissions.RoleClassRep && principal.CourseID != courseID {
		return res, failure.Forbidden("class representatives can only view their own course quota") // nolint:wrapcheck
	}

	bookingDate, err := timezone.Parse(constant.CalendarDayFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("booking date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	used, err := s.repo.SumBookedMinutes(ctx, courseID, bookingDate)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum booked minutes")

		return res, fmt.Errorf("failed to sum booked minutes: %w", err)
	}

	remaining := s.cfg.Booking.DailyQuotaMinutes - used
	if remaining < 0 {
		remaining = 0
	}

	return dto.QuotaResponse{
		CourseID:         courseID,
		BookingDate:      date,
		QuotaMinutes:     s.cfg.Booking.DailyQuotaMinutes,
		UsedMinutes:      used,
		RemainingMinutes: remaining,
	}, nil
}

func (s *serviceImpl) buildSlots(booked []model.Booking) []dto.Slot {
	slots := []dto.Slot{}

	step := time.Duration(s.cfg.Booking.SlotMinutes) * time.Minute
	dayEnd := wallClock(s.cfg.Booking.DayEndHour, 0)

	for start := wallClock(s.cfg.Booking.DayStartHour, 0); start.Before(dayEnd); start = start.Add(step) {
		end := start.Add(step)
		if end.After(dayEnd) {
			end = dayEnd
		}

		available := true

		for _, booking := range booked {
			if model.Overlaps(booking.StartTime, booking.EndTime, start, end) {
				available = false

				break
			}
		}

		slots = append(slots, dto.Slot{
			StartTime: start.Format(constant.WallClockFormat),
			EndTime:   end.Format(constant.WallClockFormat),
			Available: available,
		})
	}

	return slots
}

func (s *serviceImpl) bookingByID(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) courseByID(ctx context.Context, id string) (courseModel.Course, error) {
	course, err := s.courseRepo.Get(ctx, shared.FilterByID(id, courseModel.FieldID, courseModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get course")

		return course, fmt.Errorf("failed to get course: %w", err)
	}

	if course.ID == constant.Empty {
		return course, failure.NotFound("course not found") // nolint:wrapcheck
	}

	return course, nil
}

func (s *serviceImpl) activeRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.Active {
		return room, failure.BadRequestFromString("room is not active") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) activeCourse(ctx context.Context, id string) (courseModel.Course, error) {
	course, err := s.courseByID(ctx, id)
	if err != nil {
		return course, err
	}

	if !course.Active {
		return course, failure.BadRequestFromString("course is not active") // nolint:wrapcheck
	}

	return course, nil
}

func (s *serviceImpl) checkReadable(principal permissions.Principal, courseID, bookedBy string) error {
	switch principal.Visibility() {
	case permissions.ScopeAll:
		return nil
	case permissions.ScopeCourse:
		if courseID != principal.CourseID && bookedBy != principal.UserID {
			return failure.Forbidden("booking belongs to another course") // nolint:wrapcheck
		}

		return nil
	default:
		if bookedBy != principal.UserID {
			return failure.Forbidden("booking belongs to another user") // nolint:wrapcheck
		}

		return nil
	}
}

// publishEvent hands the event to the booking topic. Notification fan-out
// happens in the consumer, so a broker outage never fails the request.
func (s *serviceImpl) publishEvent(ctx context.Context, event nModel.BookingEvent) {
	message := kafka.Message{
		Key:   event.BookingID,
		Value: event,
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.BookingTopic, message); err != nil {
		log.Error().Err(err).Str("eventType", event.Type).Msg("failed to publish booking event")
	}
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id, roomID string, date time.Time) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheAvailability, roomID, date.Format(constant.CalendarDayFormat))); err != nil {
			log.Error().Err(err).Msg("failed to delete availability from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheStatsBooking)
	}()
}

func scopedFilter(principal permissions.Principal, filter gDto.FilterGroup) gDto.FilterGroup {
	switch principal.Visibility() {
	case permissions.ScopeAll:
		return filter
	case permissions.ScopeCourse:
		// Course-scoped callers also see bookings they made themselves,
		// even outside their course.
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "scope_course_id",
					Field:    model.FieldCourseID,
					Operator: gDto.FilterOperatorEq,
					Value:    principal.CourseID,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "scope_booked_by",
					Field:    model.FieldBookedBy,
					Operator: gDto.FilterOperatorEq,
					Value:    principal.UserID,
					Table:    model.TableName,
				},
			},
		})
	default:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldBookedBy,
			Operator: gDto.FilterOperatorEq,
			Value:    principal.UserID,
			Table:    model.TableName,
		})
	}

	return filter
}

func wallClock(hour, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}
