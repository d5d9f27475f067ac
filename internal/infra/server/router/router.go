// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nivi-finance/backend/internal/integration/entrypoint/controller"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/validation"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	financeController     *controller.FinanceController
	installmentController *controller.InstallmentController
	authRateLimiter       *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
	allowedOrigins        []string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	financeController *controller.FinanceController,
	installmentController *controller.InstallmentController,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
) *Router {
	return &Router{
		healthController:      healthController,
		authController:        authController,
		financeController:     financeController,
		installmentController: installmentController,
		authRateLimiter:       authRateLimiter,
		authMiddleware:        authMiddleware,
		allowedOrigins:        allowedOrigins,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	if err := validation.Register(); err != nil {
		slog.Error("Failed to register request validators", "error", err)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(cors.New(r.corsConfig(environment)))

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// corsConfig allows every origin outside production unless a list is
// configured. Production with no list allows none.
func (r *Router) corsConfig(environment string) cors.Config {
	cfg := cors.DefaultConfig()
	switch {
	case len(r.allowedOrigins) > 0:
		cfg.AllowOrigins = r.allowedOrigins
	case environment == "production":
		cfg.AllowOrigins = []string{}
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods(http.MethodPatch)
	cfg.AddAllowHeaders("Authorization")
	cfg.AddExposeHeaders("Content-Disposition", "Retry-After")
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.GET("/health", r.healthController.Check)

	if r.authController != nil {
		auth := v1.Group("/auth")
		limited := r.limit()
		{
			auth.POST("/register", limited, r.authController.Register)
			auth.POST("/login", limited, r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
		}
	}

	if r.authMiddleware == nil {
		return
	}

	budget := v1.Group("/budget")
	budget.Use(r.authMiddleware.Authenticate())

	if r.financeController != nil {
		fc := r.financeController
		budget.GET("", fc.GetState)
		budget.PUT("", fc.ReplaceState)

		budget.POST("/income", fc.AddIncome)
		budget.PATCH("/income/:id", fc.EditIncome)
		budget.DELETE("/income/:id", fc.DeleteIncome)

		subcategories := budget.Group("/categories/:categoryId/subcategories")
		{
			subcategories.POST("", fc.AddSubcategory)
			subcategories.PATCH("/:subId", fc.RenameSubcategory)
			subcategories.DELETE("/:subId", fc.DeleteSubcategory)
			subcategories.PATCH("/:subId/allocation", fc.SetAllocation)
		}

		budget.POST("/subcategories/:subId/expenses", fc.AddExpense)
		budget.PATCH("/expenses/:id", fc.EditExpense)
		budget.DELETE("/expenses/:id", fc.DeleteExpense)

		budget.POST("/transfers", fc.Transfer)

		budget.GET("/transactions", fc.History)
		budget.GET("/transactions/export", fc.ExportHistory)
	}

	if r.installmentController != nil {
		ic := r.installmentController
		emis := budget.Group("/emis")
		{
			emis.POST("", ic.AddEMI)
			emis.PATCH("/:id", ic.EditEMI)
			emis.DELETE("/:id", ic.DeleteEMI)
			emis.POST("/:id/pay", ic.PayEMI)
		}

		debts := budget.Group("/debts")
		{
			debts.POST("", ic.AddDebt)
			debts.PATCH("/:id", ic.EditDebt)
			debts.DELETE("/:id", ic.DeleteDebt)
			debts.POST("/:id/pay", ic.PayDebt)
		}
	}
}

func (r *Router) limit() gin.HandlerFunc {
	if r.authRateLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.authRateLimiter.Middleware()
}
