// Package routes wires repositories, services and handlers to the
// fiber app and declares the HTTP surface.
package routes

import (
	"time"

	"sahulat/internal/config"
	"sahulat/internal/handlers"
	"sahulat/internal/middleware"
	"sahulat/internal/repositories"
	"sahulat/internal/repositories/cache"
	"sahulat/internal/services/account"
	"sahulat/internal/services/auth"
	"sahulat/internal/services/card"
	"sahulat/internal/services/caserequest"
	"sahulat/internal/services/kyc"
	"sahulat/internal/services/loan"
	"sahulat/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes builds the dependency graph and registers every route.
func SetupRoutes(app *fiber.App, db *gorm.DB, redisClient *redis.Client) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	cardRepo := repositories.NewCreditCardRepository(db)
	caseRepo := repositories.NewCaseRequestRepository(db)

	otpStore := cache.NewOTPStore(redisClient, config.OTPTTL())
	accountCache := cache.NewAccountCache(redisClient, config.GetDurationEnv("ACCOUNT_CACHE_TTL", 10*time.Minute))

	// Services
	authService := auth.NewService(userRepo)
	accountService := account.NewService(accountRepo, userRepo, accountCache)
	kycService := kyc.NewService(kycRepo, accountRepo, accountCache, config.OpeningCredit())
	transferService := transfer.NewService(accountRepo, transactionRepo, otpStore)
	loanService := loan.NewService(loanRepo)
	cardService := card.NewService(cardRepo)
	caseService := caserequest.NewService(caseRepo, accountRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	kycHandler := handlers.NewKYCHandler(kycService)
	transactionHandler := handlers.NewTransactionHandler(transferService)
	loanHandler := handlers.NewLoanHandler(loanService)
	cardHandler := handlers.NewCreditCardHandler(cardService)
	caseHandler := handlers.NewCaseRequestHandler(caseService)
	adminHandler := handlers.NewAdminHandler(userRepo, accountRepo, kycRepo, loanRepo, cardRepo, accountService, caseService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Authenticated endpoints
	protected := api.Use(middleware.Authenticate)
	protected.Get("/auth/me", authHandler.Me)

	accounts := protected.Group("/accounts")
	accounts.Post("/", accountHandler.Open)
	accounts.Get("/my-account", accountHandler.MyAccount)
	accounts.Get("/:accountNumber", accountHandler.Lookup)

	kycGroup := protected.Group("/kyc")
	kycGroup.Post("/", kycHandler.Submit)
	kycGroup.Get("/my-kyc", kycHandler.MyKYC)
	kycGroup.Get("/pending", middleware.RequireAdmin, kycHandler.Pending)
	kycGroup.Put("/:id/verify", middleware.RequireAdmin, kycHandler.Verify)

	transactions := protected.Group("/transactions")
	transactions.Post("/transfer", transactionHandler.Transfer)
	transactions.Post("/:id/verify-otp", transactionHandler.VerifyOTP)
	transactions.Get("/my-transactions", transactionHandler.MyTransactions)

	loans := protected.Group("/loans")
	loans.Post("/apply", loanHandler.Apply)
	loans.Get("/my-loans", loanHandler.MyLoans)
	loans.Get("/pending", middleware.RequireAdmin, loanHandler.Pending)
	loans.Put("/:id/review", middleware.RequireAdmin, loanHandler.Review)

	cards := protected.Group("/credit-cards")
	cards.Post("/apply", cardHandler.Apply)
	cards.Get("/my-applications", cardHandler.MyCards)
	cards.Get("/pending", middleware.RequireAdmin, cardHandler.Pending)
	cards.Put("/:id/review", middleware.RequireAdmin, cardHandler.Review)

	requests := protected.Group("/requests")
	requests.Post("/", caseHandler.Submit)
	requests.Get("/my-requests", caseHandler.MyRequests)
	// Staff work the case-request queue alongside admins.
	requests.Get("/pending", middleware.RequireStaff, caseHandler.Open)
	requests.Put("/:id/status", middleware.RequireStaff, caseHandler.UpdateStatus)

	admin := protected.Group("/admin", middleware.RequireAdmin)
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/pending-requests", adminHandler.PendingRequests)
	admin.Get("/customers", adminHandler.Customers)
	admin.Put("/customers/:userId/balance", adminHandler.AdjustBalance)
}
