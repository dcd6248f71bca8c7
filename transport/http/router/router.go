package router

import (
	"campusroom/internal/handlers/auth"
	"campusroom/internal/handlers/booking"
	"campusroom/internal/handlers/course"
	"campusroom/internal/handlers/notification"
	"campusroom/internal/handlers/room"
	"campusroom/internal/handlers/user"
	"campusroom/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Room         room.Handler
	Course       course.Handler
	Booking      booking.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthMiddleware middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		// Auth mounts its own public and protected routes.
		r.DomainHandlers.Auth.Router(routerGroup)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.AuthMiddleware.Auth)

			r.DomainHandlers.User.Router(protected)
			r.DomainHandlers.Room.Router(protected)
			r.DomainHandlers.Course.Router(protected)
			r.DomainHandlers.Booking.Router(protected)
			r.DomainHandlers.Notification.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, authMiddleware middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthMiddleware: authMiddleware,
	}
}
