package service

import (
	"campusroom/config"
	"campusroom/infras/otel"
	"campusroom/internal/domains/course/model"
	"campusroom/internal/domains/course/model/dto"
	"campusroom/internal/domains/course/repository"
	"campusroom/permissions"
	"campusroom/shared"
	"campusroom/shared/cache"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCourse    = "course:get"
	cacheGetAllCourse = "course:gets"
	cacheCountCourse  = "course:count"
)

type Course interface {
	Create(ctx context.Context, principal permissions.Principal, req dto.CreateCourseRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCoursesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	Update(ctx context.Context, principal permissions.Principal, req dto.UpdateCourseRequest, id string) error
	Delete(ctx context.Context, principal permissions.Principal, id string) error
}

type serviceImpl struct {
	repo  repository.Course
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Course, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Course {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, principal permissions.Principal, req dto.CreateCourseRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = principal.Require(permissions.ActionManageCourses); err != nil {
		return err
	}

	codeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Code,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, codeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if course exists")

		return fmt.Errorf("failed to check if course exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("course code already registered") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(principal.UserID)); err != nil {
		log.Error().Err(err).Msg("failed to create course")

		return fmt.Errorf("failed to create course: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourse)
		shared.InvalidateCaches(c, s.cache, cacheCountCourse)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCoursesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCourse, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for courses")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count courses")

		return res, fmt.Errorf("failed to count courses: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get courses")

		return res, fmt.Errorf("failed to get courses: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save courses to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCourse, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count courses")

		return res, fmt.Errorf("failed to count courses: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save course count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CourseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCourse, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for course")

		return res, nil
	}

	course, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get course")

		return res, fmt.Errorf("failed to get course: %w", err)
	}

	if course.ID == constant.Empty {
		return res, failure.NotFound("course not found") // nolint:wrapcheck
	}

	res.FromModel(course)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save course to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, principal permissions.Principal, req dto.UpdateCourseRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = principal.Require(permissions.ActionManageCourses); err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if course exists")

		return fmt.Errorf("failed to check if course exists: %w", err)
	}

	if !exist {
		return failure.NotFound("course not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, principal.UserID)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update course")

		return fmt.Errorf("failed to update course: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCourse, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete course from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourse)
		shared.InvalidateCaches(c, s.cache, cacheCountCourse)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, principal permissions.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = principal.Require(permissions.ActionManageCourses); err != nil {
		return err
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if course exists")

		return fmt.Errorf("failed to check if course exists: %w", err)
	}

	if !exist {
		return failure.NotFound("course not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete course")

		return fmt.Errorf("failed to delete course: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCourse, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete course from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourse)
		shared.InvalidateCaches(c, s.cache, cacheCountCourse)
	}()

	return nil
}
