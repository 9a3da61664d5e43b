package routes

import (
	"philately/cart"
	"philately/middleware"
	"philately/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddCartRoutes wires the per-user cart. Every route requires a login.
func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)

	router.GET("/api/cart", authed(cart.GetCart))
	router.POST("/api/cart/items", authed(cart.AddToCart))
	router.PATCH("/api/cart/items/:stampid", authed(cart.UpdateQuantity))
	router.DELETE("/api/cart/items/:stampid", authed(cart.RemoveFromCart))
	router.DELETE("/api/cart", authed(cart.ClearCart))
}
