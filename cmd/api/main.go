package main

import (
	"fmt"
	"net/http"
	"os"

	"contas/internal/config"
	"contas/internal/database"
	"contas/internal/handlers"
	"contas/internal/logger"
	"contas/internal/middleware"
	"contas/internal/services"
	"contas/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	recurringService := services.NewRecurringExpenseService(db)
	transactionService := services.NewTransactionService(db)
	aggregatorService := services.NewExpenseAggregatorService(db, recurringService, transactionService)
	migrationService := services.NewMigrationService(db)

	// Initialize handlers
	recurringHandler := handlers.NewRecurringExpenseHandler(recurringService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	expenseHandler := handlers.NewExpenseHandler(aggregatorService)
	migrationHandler := handlers.NewMigrationHandler(migrationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Combined expense views
	expenses := v1.Group("/expenses")
	expenses.GET("/monthly", expenseHandler.GetMonthlyExpenses)
	expenses.GET("/upcoming", expenseHandler.GetUpcomingExpenses)
	expenses.GET("/overdue", expenseHandler.GetOverdueExpenses)
	expenses.GET("/summary", expenseHandler.GetMonthlySummary)
	expenses.POST("/recurring/:id/pay", expenseHandler.PayRecurringExpense)

	// Recurring expense templates
	recurring := v1.Group("/recurring-expenses")
	recurring.POST("", recurringHandler.CreateRecurringExpense)
	recurring.GET("", recurringHandler.GetRecurringExpenses)
	recurring.GET("/:id", recurringHandler.GetRecurringExpenseByID)
	recurring.PUT("/:id", recurringHandler.UpdateRecurringExpense)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurringExpense)
	recurring.PATCH("/:id/toggle", recurringHandler.ToggleRecurringExpense)
	recurring.GET("/:id/transactions", transactionHandler.GetLinkedTransactions)

	// Ledger transactions
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PATCH("/:id/status", transactionHandler.UpdateTransactionStatus)
	transactions.POST("/:id/payments", transactionHandler.CreatePayment)
	transactions.GET("/:id/payments", transactionHandler.GetRelatedPayments)
	transactions.PATCH("/:id/dismiss-notification", transactionHandler.DismissNotification)

	// Legacy data migration
	migrations := v1.Group("/migrations")
	migrations.POST("/recurring-expenses", migrationHandler.RunMigration)
	migrations.GET("/recurring-expenses/status", migrationHandler.GetMigrationStatus)
	migrations.DELETE("/recurring-expenses", migrationHandler.RollbackMigration)

	log.Infof("Starting Contas backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
