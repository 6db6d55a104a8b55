package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clearbooks/ledger-api/internal/api/handler"
	"github.com/clearbooks/ledger-api/internal/api/middleware"
	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/service"
	mongoinfra "github.com/clearbooks/ledger-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/clearbooks/ledger-api/internal/infrastructure/db/redis"
	"github.com/clearbooks/ledger-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ledger"))

	// --- Auth dependencies ---
	sessions := redisinfra.NewSessionStore(rdb)
	limiter := redisinfra.NewLoginLimiter(rdb, log)
	users := mongoinfra.NewUserRepository(db)
	roles := mongoinfra.NewRoleRepository(db)

	authService := service.NewAuthService(users, roles, sessions, limiter,
		cfg.JWTSecret, cfg.SessionTTL, cfg.SignInTimeout, log)
	authHandler := handler.NewAuthHandler(authService)

	authRequired := middleware.Auth(cfg.JWTSecret, sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.GET("/me", authHandler.Me, authRequired)
	auth.POST("/register", authHandler.Register, authRequired, adminOnly)

	// --- Ledger resources ---
	v1 := e.Group("/v1", authRequired)

	bills := service.NewResource[domain.Bill, *domain.Bill](domain.ResourceBills, mongoinfra.NewBillRepository(db), log)
	handler.NewResourceHandler(bills, handler.DecodeBill).Register(v1, adminOnly, false)

	cards := service.NewResource[domain.Card, *domain.Card](domain.ResourceCards, mongoinfra.NewCollection[domain.Card](db, domain.ResourceCards), log)
	handler.NewResourceHandler(cards, handler.DecodeCard).Register(v1, adminOnly, true)

	transactions := service.NewResource[domain.CashTransaction, *domain.CashTransaction](domain.ResourceTransactions, mongoinfra.NewCollection[domain.CashTransaction](db, domain.ResourceTransactions), log)
	handler.NewResourceHandler(transactions, handler.DecodeTransaction).Register(v1, adminOnly, false)

	budgets := service.NewResource[domain.Budget, *domain.Budget](domain.ResourceBudgets, mongoinfra.NewCollection[domain.Budget](db, domain.ResourceBudgets), log)
	handler.NewResourceHandler(budgets, handler.DecodeBudget).Register(v1, adminOnly, false)

	salaries := service.NewResource[domain.Salary, *domain.Salary](domain.ResourceSalaries, mongoinfra.NewCollection[domain.Salary](db, domain.ResourceSalaries), log)
	handler.NewResourceHandler(salaries, handler.DecodeSalary).Register(v1, adminOnly, true)

	pettyExpenses := service.NewResource[domain.PettyExpense, *domain.PettyExpense](domain.ResourcePettyExpenses, mongoinfra.NewCollection[domain.PettyExpense](db, domain.ResourcePettyExpenses), log)
	handler.NewResourceHandler(pettyExpenses, handler.DecodePettyExpense).Register(v1, adminOnly, false)

	reminders := service.NewResource[domain.Reminder, *domain.Reminder](domain.ResourceReminders, mongoinfra.NewCollection[domain.Reminder](db, domain.ResourceReminders), log)
	handler.NewResourceHandler(reminders, handler.DecodeReminder).Register(v1, adminOnly, false)

	employees := service.NewResource[domain.Employee, *domain.Employee](domain.ResourceEmployees, mongoinfra.NewCollection[domain.Employee](db, domain.ResourceEmployees), log)
	handler.NewResourceHandler(employees, handler.DecodeEmployee).Register(v1, adminOnly, true)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
