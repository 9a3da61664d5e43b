package routes

import (
	"philately/forum"
	"philately/middleware"
	"philately/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddForumRoutes wires the discussion forum. Reading is public, writing
// needs a login. Deletion checks author-or-admin inside the handlers.
func AddForumRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)

	router.GET("/api/forum/threads", rateLimiter.Limit(forum.ListThreads))
	router.GET("/api/forum/threads/:threadid", rateLimiter.Limit(forum.GetThread))

	router.POST("/api/forum/threads", authed(forum.CreateThread))
	router.POST("/api/forum/threads/:threadid/replies", authed(forum.CreateReply))
	router.DELETE("/api/forum/threads/:threadid", authed(forum.DeleteThread))
	router.DELETE("/api/forum/replies/:replyid", authed(forum.DeleteReply))
}
