package course

import (
	"campusroom/infras/otel"
	"campusroom/internal/domains/course/model"
	"campusroom/internal/domains/course/model/dto"
	"campusroom/internal/domains/course/service"
	"campusroom/permissions"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/validator"
	"campusroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Course
	otel    otel.Otel
}

func New(service service.Course, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/courses", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCourse)
		routerGroup.Get("/", handler.GetCourses)
		routerGroup.Get("/{id}", handler.GetCourseByID)
		routerGroup.Patch("/{id}", handler.UpdateCourse)
		routerGroup.Delete("/{id}", handler.DeleteCourse)
	})
}

// CreateCourse creates a new course.
// @Summary Create a new course
// @Description Create a course with a code, name, lecturer and semester. Admin only.
// @Tags Course
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Create Course Request"
// @Success 201 {object} response.Message "Course created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/courses [post]
// @Security BearerAuth
func (handler *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCourse")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.CreateCourseRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, principal, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create course")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Course created successfully by " + principal.UserID)

	response.WithMessage(w, http.StatusCreated, "Course created successfully")
}

// GetCourses retrieves all courses based on query parameters.
// @Summary Get all courses
// @Description Retrieve all courses with optional filtering and pagination.
// @Tags Course
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param lecturer_id query string false "Filter by lecturer ID"
// @Param semester query string false "Filter by semester"
// @Param active query string false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetCoursesResponse] "List of courses"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/courses [get]
// @Security BearerAuth
func (handler *Handler) GetCourses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCourses")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldLecturerID, model.FieldSemester, model.FieldActive} {
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

	courses, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get courses")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Courses retrieved successfully")

	response.WithJSON(w, http.StatusOK, courses)
}

// GetCourseByID retrieves a course by its ID.
// @Summary Get a course by ID
// @Description Retrieve a course by its unique identifier.
// @Tags Course
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Data[dto.CourseResponse] "Course details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/courses/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCourseByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	course, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get course by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Course retrieved successfully")

	response.WithJSON(w, http.StatusOK, course)
}

// UpdateCourse updates a course by its ID.
// @Summary Update a course
// @Description Update course attributes. Admin only.
// @Tags Course
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Update Course Request"
// @Success 200 {object} response.Message "Course updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/courses/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCourse")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCourseRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, principal, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update course")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Course " + id + " updated by " + principal.UserID)

	response.WithMessage(w, http.StatusOK, "Course updated successfully")
}

// DeleteCourse deactivates a course by its ID.
// @Summary Delete a course
// @Description Deactivate a course. Admin only.
// @Tags Course
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Message "Course deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/courses/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCourse")
	defer scope.End()

	principal, err := permissions.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, principal, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete course")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Course " + id + " deleted by " + principal.UserID)

	response.WithMessage(w, http.StatusOK, "Course deleted successfully")
}
