package routes

import (
	"philately/checkout"
	"philately/middleware"
	"philately/orders"
	"philately/ratelim"
	"philately/wallet"

	"github.com/julienschmidt/httprouter"
)

// AddOrderRoutes wires checkout and order management. The feed hub is owned
// by main so it can be stopped on shutdown.
func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, feed *orders.Feed) {
	walletService := wallet.NewWalletService()

	placer := checkout.NewWalletOrderPlacer(walletService)
	placer.Notify = feed.BroadcastPlaced

	checkoutService := checkout.NewCheckoutService(walletService, placer)
	orderService := orders.NewOrderService(walletService, feed)

	user := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("user"),
	)
	admin := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("admin"),
	)

	router.POST("/api/orders", user(checkoutService.PlaceOrder))
	router.GET("/api/orders/my-orders", user(orderService.GetMyOrders))
	router.GET("/api/orders/order/:orderid", user(orderService.GetOrder))
	router.GET("/api/orders/order/:orderid/invoice", user(orderService.DownloadInvoice))

	router.GET("/api/orders/all", admin(orderService.ListAllOrders))
	router.PATCH("/api/orders/order/:orderid/status", admin(orderService.UpdateOrderStatus))

	// Live order feed for the admin dashboard. The handler authenticates
	// from the Authorization header or ?token= itself.
	router.GET("/ws/orders", feed.WebSocketHandler())
}
