//go:build wireinject
// +build wireinject

package di

import (
	"campusroom/config"
	"campusroom/infras/jwt"
	"campusroom/infras/kafka"
	"campusroom/infras/otel"
	"campusroom/infras/postgres"
	"campusroom/infras/redis"
	"campusroom/infras/s3"
	"campusroom/internal/events"
	"campusroom/shared/cache"
	"campusroom/transport/http"
	"campusroom/transport/http/middleware"
	"campusroom/transport/http/router"

	"github.com/google/wire"

	authService "campusroom/internal/domains/auth/service"
	bookingRepository "campusroom/internal/domains/booking/repository"
	bookingService "campusroom/internal/domains/booking/service"
	courseRepository "campusroom/internal/domains/course/repository"
	courseService "campusroom/internal/domains/course/service"
	notificationRepository "campusroom/internal/domains/notification/repository"
	notificationService "campusroom/internal/domains/notification/service"
	roomRepository "campusroom/internal/domains/room/repository"
	roomService "campusroom/internal/domains/room/service"
	userRepository "campusroom/internal/domains/user/repository"
	userService "campusroom/internal/domains/user/service"

	authHandler "campusroom/internal/handlers/auth"
	bookingHandler "campusroom/internal/handlers/booking"
	courseHandler "campusroom/internal/handlers/course"
	notificationHandler "campusroom/internal/handlers/notification"
	roomHandler "campusroom/internal/handlers/room"
	userHandler "campusroom/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var courseDomain = wire.NewSet(
	courseRepository.New,
	courseService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	courseDomain,
	bookingDomain,
	notificationDomain,
)

var eventConsumers = wire.NewSet(
	events.NewBookingConsumer,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	courseHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() *Service {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		eventConsumers,
		routing,
		http.New,
		wire.Struct(new(Service), "*"),
	)

	return &Service{}
}
