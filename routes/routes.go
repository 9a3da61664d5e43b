package routes

import (
	"philately/auth"
	"philately/middleware"
	"philately/ratelim"
	"philately/stamps"

	"github.com/julienschmidt/httprouter"
)

// AddAuthRoutes wires registration, login and session handlers.
func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

// AddStampRoutes wires the stamp catalog. Browsing is public, catalog
// management is admin only.
func AddStampRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/stamps", rateLimiter.Limit(stamps.GetStamps))
	router.GET("/api/stamps/:stampid", rateLimiter.Limit(stamps.GetStamp))

	router.POST("/api/stamps",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(stamps.CreateStamp),
	)
	router.PUT("/api/stamps/:stampid",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(stamps.EditStamp),
	)
	router.DELETE("/api/stamps/:stampid",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(stamps.DeleteStamp),
	)
	router.POST("/api/stamps/:stampid/image",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(stamps.UploadStampImage),
	)
}
