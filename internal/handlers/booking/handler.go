package booking

import (
	"campusroom/infras/otel"
	"campusroom/internal/domains/booking/model"
	"campusroom/internal/domains/booking/model/dto"
	"campusroom/internal/domains/booking/service"
	"campusroom/permissions"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"campusroom/shared/timezone"
	"campusroom/shared/validator"
	"campusroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/quota", handler.GetRemainingQuota)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/decision", handler.DecideBooking)
		routerGroup.Delete("/{id}", handler.CancelBooking)
	})
}

// dateRangeFilters builds booking date bounds from the date_from and date_to
// query parameters. Either bound may be absent.
func dateRangeFilters(r *http.Request) ([]any, error) {
	filters := []any{}

	bounds := []struct {
		param    string
		operator string
	}{
		{constant.RequestParamDateFrom, gDto.FilterOperatorGreaterEq},
		{constant.RequestParamDateTo, gDto.FilterOperatorLessEq},
	}

	for _, bound := range bounds {
		value := r.URL.Query().Get(bound.param)
		if value == "" {
			continue
		}

		date, err := timezone.Parse(constant.CalendarDayFormat, value)
		if err != nil {
			return nil, failure.BadRequestFromString(bound.param + " must be formatted as YYYY-MM-DD") // nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldBookingDate,
			Operator: bound.operator,
			Value:    date,
			Table:    model.TableName,
		})
	}

	return filters, nil
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Create a new room booking with the provided details.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, principal, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + principal.UserID)

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings retrieves bookings visible to the caller.
// @Summary Get bookings
// @Description Retrieve bookings with optional filtering and pagination. Results are scoped by role: students and class representatives see their course's bookings plus their own, lecturers and admins see everything.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param course_id query string false "Filter by course ID"
// @Param status query string false "Filter by status (pending, approved, rejected, cancelled)"
// @Param priority query string false "Filter by priority (urgent, high, medium, normal)"
// @Param booking_date query string false "Filter by booking date (YYYY-MM-DD)"
// @Param date_from query string false "Include bookings on or after this date (YYYY-MM-DD)"
// @Param date_to query string false "Include bookings on or before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	// Only add filters if the values are non-empty
	for _, field := range []string{
		model.FieldRoomID,
		model.FieldCourseID,
		model.FieldStatus,
		model.FieldPriority,
		model.FieldBookingDate,
	} {
		value := r.URL.Query().Get(field)
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	dateRange, err := dateRangeFilters(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dateRange...)

	bookings, err := handler.service.GetAll(ctx, principal, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetStats retrieves booking totals grouped by status.
// @Summary Get booking statistics
// @Description Retrieve booking counts per status. Restricted to lecturers and admins.
// @Tags Booking
// @Accept json
// @Produce json
// @Param room_id query string false "Filter by room ID"
// @Param course_id query string false "Filter by course ID"
// @Param date_from query string false "Count bookings on or after this date (YYYY-MM-DD)"
// @Param date_to query string false "Count bookings on or before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.StatsResponse] "Booking statistics"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldRoomID, model.FieldCourseID} {
		value := r.URL.Query().Get(field)
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	dateRange, err := dateRangeFilters(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dateRange...)

	stats, err := handler.service.Stats(ctx, principal, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, stats)
}

// GetAvailability lists the free and occupied slots of a room on a given date.
// @Summary Get room availability
// @Description Retrieve the slot-by-slot availability of a room for a date, based on approved bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param room_id query string true "Room ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Room availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	roomID := r.URL.Query().Get(model.FieldRoomID)
	date := r.URL.Query().Get("date")

	availability, err := handler.service.Availability(ctx, roomID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, availability)
}

// GetRemainingQuota reports how many daily booking minutes a course has left.
// @Summary Get remaining booking quota
// @Description Retrieve the remaining daily booking minutes for a course on a date.
// @Tags Booking
// @Accept json
// @Produce json
// @Param course_id query string true "Course ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.QuotaResponse] "Remaining quota"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/quota [get]
// @Security BearerAuth
func (handler *Handler) GetRemainingQuota(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRemainingQuota")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	courseID := r.URL.Query().Get(model.FieldCourseID)
	date := r.URL.Query().Get("date")

	quota, err := handler.service.RemainingQuota(ctx, principal, courseID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get remaining quota")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Remaining quota retrieved successfully")

	response.WithJSON(w, http.StatusOK, quota)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking by its unique identifier. Callers may only read bookings within their visibility scope.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// DecideBooking approves or rejects a pending booking.
// @Summary Decide a booking
// @Description Approve or reject a pending booking. Restricted to lecturers and admins.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.DecideBookingRequest true "Decision Request"
// @Success 200 {object} response.Message "Booking decided successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/decision [patch]
// @Security BearerAuth
func (handler *Handler) DecideBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DecideBooking")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.DecideBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Decide(ctx, principal, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decide booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + id + " decided by user " + principal.UserID)

	response.WithMessage(w, http.StatusOK, "Booking decided successfully")
}

// CancelBooking cancels a pending or approved booking.
// @Summary Cancel a booking
// @Description Cancel a booking, optionally recording a reason. Bookers may cancel their own bookings, admins may cancel any.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest false "Cancellation Request"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelBookingRequest{}

	// The body is optional; an empty one falls back to the default reason.
	if r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	if err := handler.service.Cancel(ctx, principal, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + id + " cancelled by user " + principal.UserID)

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}
