package routes

import (
	"philately/events"
	"philately/middleware"
	"philately/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddEventsRoutes wires exhibitions and RSVPs.
func AddEventsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)
	admin := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("admin"),
	)

	router.GET("/api/events", rateLimiter.Limit(events.GetEvents))
	router.GET("/api/events/:eventid", rateLimiter.Limit(events.GetEvent))

	router.POST("/api/events", admin(events.CreateEvent))
	router.DELETE("/api/events/:eventid", admin(events.DeleteEvent))

	router.POST("/api/events/:eventid/rsvp", authed(events.CreateRSVP))
	router.DELETE("/api/events/:eventid/rsvp", authed(events.CancelRSVP))
	router.GET("/api/events/:eventid/pass", authed(events.DownloadPass))
	router.GET("/api/users/rsvps", authed(events.MyRSVPs))

	// Gate staff scan endpoint. Lives outside /api/events to keep the
	// wildcard route clean.
	router.GET("/api/passes/verify", admin(events.VerifyPass))
}
