// Package routes wires repositories, services and handlers together and
// registers every API route on the fiber app.
package routes

import (
	"lipa/internal/config"
	"lipa/internal/handlers"
	"lipa/internal/middleware"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/services/auth"
	"lipa/internal/services/catalog"
	"lipa/internal/services/kyc"
	"lipa/internal/services/ledger"
	"lipa/internal/services/notification"
	"lipa/internal/services/referral"
	"lipa/internal/services/user"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes builds the dependency graph and registers all routes.
func SetupRoutes(app *fiber.App) {
	// Repositories.
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	productRepo := repositories.NewProductRepository(repositories.DB, repositories.CacheService)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	kycRepo := repositories.NewKYCRepository(repositories.DB)

	// Services. The engine sits underneath everything that moves money.
	notifier := notification.NewService()
	authService := auth.NewService(userRepo, notifier)
	userService := user.NewService(userRepo)
	catalogService := catalog.NewService(productRepo)
	engine := ledger.NewService(
		ledgerRepo,
		catalogService,
		repositories.CacheService,
		ledger.Config{
			CoinExchangeRate: config.GetDecimalEnv("COIN_EXCHANGE_RATE", ledger.DefaultCoinExchangeRate),
			MinExchangeCoins: config.GetInt64Env("MIN_EXCHANGE_COINS", ledger.DefaultMinExchangeCoins),
			ReferrerCoins:    config.GetInt64Env("REFERRER_COINS", ledger.DefaultReferrerCoins),
			RedeemerCoins:    config.GetInt64Env("REDEEMER_COINS", ledger.DefaultRedeemerCoins),
		},
		&ledger.NoopMetricsCollector{},
	)
	kycService := kyc.NewService(kycRepo, userRepo, repositories.CacheService)
	referralService := referral.NewService(userRepo, engine)

	// Handlers.
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, referralService)
	walletHandler := handlers.NewWalletHandler(engine)
	productHandler := handlers.NewProductHandler(catalogService, engine)
	callbackHandler := handlers.NewCallbackHandler(engine, notifier, config.GetEnv("CALLBACK_SECRET", ""))
	kycHandler := handlers.NewKYCHandler(kycService)
	adminHandler := handlers.NewAdminHandler(userService, kycService, engine)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints.
	api.Post("/register", userHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Post("/forgot-password", authHandler.ForgotPassword)

	// Storefront browsing needs no account.
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Settlement callbacks authenticate by signature, not by token.
	callbacks := api.Group("/callbacks")
	callbacks.Post("/deposit", callbackHandler.DepositCallback)
	callbacks.Post("/purchase", callbackHandler.PurchaseCallback)

	// Everything below requires a valid token.
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/me", userHandler.GetProfile)

	protected.Get("/referral-code", userHandler.GetReferralCode)
	protected.Post("/referrals/redeem", userHandler.RedeemReferral)

	wallet := protected.Group("/wallet")
	wallet.Post("/deposit", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Deposit)
	wallet.Post("/withdraw", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Withdraw)
	wallet.Post("/transfer", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Transfer)
	wallet.Post("/exchange-coins", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.ExchangeCoins)
	wallet.Get("/deposits", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetDeposits)
	wallet.Get("/withdrawals", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWithdrawals)
	wallet.Get("/transfers", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetTransfers)
	wallet.Get("/coin-exchanges", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetCoinExchanges)

	protected.Post("/purchases", middleware.HasPermission(models.PermissionPurchaseWrite), productHandler.Buy)
	protected.Get("/transactions", productHandler.GetTransactions)

	protected.Post("/kyc", kycHandler.Submit)
	protected.Get("/kyc", kycHandler.GetStatus)

	// Back office.
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/block", adminHandler.SetBlocked)
	admin.Get("/kyc/pending", adminHandler.ListPendingKYC)
	admin.Put("/kyc/:id/review", adminHandler.ReviewKYC)
	admin.Get("/transactions/pending", adminHandler.ListPendingTransactions)
	admin.Put("/transactions/:id/settle", adminHandler.SettleTransaction)
	admin.Get("/transfers/pending", adminHandler.ListPendingTransfers)
	admin.Put("/transfers/:id/settle", adminHandler.SettleTransfer)
	admin.Get("/withdrawals/pending", adminHandler.ListPendingWithdrawals)
	admin.Put("/withdrawals/:id/settle", adminHandler.SettleWithdrawal)
}
