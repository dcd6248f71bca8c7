package service

import (
	"campusroom/config"
	"campusroom/infras/otel"
	"campusroom/internal/domains/notification/model"
	"campusroom/internal/domains/notification/model/dto"
	"campusroom/internal/domains/notification/repository"
	"campusroom/permissions"
	"campusroom/shared"
	"campusroom/shared/cache"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"campusroom/shared/timezone"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheCountUnread = "notification:unread"
)

type Notification interface {
	GetAll(ctx context.Context, principal permissions.Principal, req gDto.QueryParams) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, principal permissions.Principal, id string) error
	MarkAllRead(ctx context.Context, principal permissions.Principal) error
	CreateFromEvent(ctx context.Context, event model.BookingEvent) error
}

type serviceImpl struct {
	repo  repository.Notification
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Notification, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, principal permissions.Principal, req gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := recipientFilter(principal.UserID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	unread, err := s.countUnread(ctx, principal.UserID)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, unread, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, principal permissions.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	notification, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	if notification.RecipientID != principal.UserID {
		return failure.Forbidden("notifications can only be read by their recipient") // nolint:wrapcheck
	}

	if notification.Read {
		return nil
	}

	fields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: principal.UserID,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	s.invalidateUnread(ctx, principal.UserID)

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context, principal permissions.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	fields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: principal.UserID,
	}

	if err = s.repo.Update(ctx, fields, unreadFilter(principal.UserID)); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as read")

		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	s.invalidateUnread(ctx, principal.UserID)

	return nil
}

func (s *serviceImpl) CreateFromEvent(ctx context.Context, event model.BookingEvent) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateFromEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	for _, notification := range model.Dispatch(event) {
		notification.ID = uuid.NewString()
		notification.CreatedAt = timezone.Now()
		notification.ModifiedAt = timezone.Now()
		notification.CreatedBy = event.ActorID
		notification.ModifiedBy = event.ActorID

		if err = s.repo.Insert(ctx, notification); err != nil {
			log.Error().Err(err).Str("recipientID", notification.RecipientID).Msg("failed to create notification")

			return fmt.Errorf("failed to create notification: %w", err)
		}

		s.invalidateUnread(ctx, notification.RecipientID)
	}

	return nil
}

func (s *serviceImpl) countUnread(ctx context.Context, userID string) (res int, err error) {
	cacheKey := shared.BuildCacheKey(cacheCountUnread, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, unreadFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save unread count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidateUnread(ctx context.Context, userID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheCountUnread, userID)); err != nil {
			log.Error().Err(err).Msg("failed to delete unread count from cache")
		}
	}()
}

func recipientFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}
}

func unreadFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldRead,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}
}
