package routes

import (
	"philately/middleware"
	"philately/ratelim"
	"philately/wallet"

	"github.com/julienschmidt/httprouter"
)

// AddWalletRoutes wires the wallet endpoints.
func AddWalletRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	walletService := wallet.NewWalletService()

	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("user"),
	)

	router.GET("/api/users/wallet", authed(walletService.GetBalance))
	router.POST("/api/users/wallet/add", authed(walletService.AddMoney))
	router.GET("/api/users/transactions", authed(walletService.ListTransactions))
}
