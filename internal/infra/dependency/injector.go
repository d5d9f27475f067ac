// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nivi-finance/backend/config"
	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/application/session"
	"github.com/nivi-finance/backend/internal/application/usecase/auth"
	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/application/usecase/installment"
	"github.com/nivi-finance/backend/internal/application/usecase/reminder"
	"github.com/nivi-finance/backend/internal/infra/db"
	"github.com/nivi-finance/backend/internal/infra/server/router"
	"github.com/nivi-finance/backend/internal/integration/adapters"
	"github.com/nivi-finance/backend/internal/integration/email"
	"github.com/nivi-finance/backend/internal/integration/email/templates"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/controller"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/nivi-finance/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *router.Router

	// Store and Saver own the in-memory finance sessions; both have to be
	// started by the caller.
	Store *session.Store
	Saver *session.Saver
	// ReminderWorker is nil when no e-mail sender is configured.
	ReminderWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// sender may be nil, in which case debt reminders are not e-mailed.
func NewInjector(cfg *config.Config, database *db.Database, cache *db.Redis, sender adapter.EmailSender) (*Injector, error) {
	conn := database.DB()
	redisClient := cache.Client()

	// Create repositories
	userRepo := persistence.NewUserRepository(conn)
	tokenRepo := persistence.NewTokenRepository(redisClient)
	var financeRepo adapter.FinanceRepository = persistence.NewFinanceRepository(conn)
	if cfg.Redis.CacheTTL > 0 {
		financeRepo = persistence.NewCachedFinanceRepository(financeRepo, redisClient, cfg.Redis.CacheTTL)
	}

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, adapters.TokenDurations{
		Access:  cfg.JWT.AccessTokenExpiry,
		Refresh: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)
	saveLocker := adapters.NewRedisSaveLocker(redisClient)
	exporter := adapters.NewXLSXExporter()

	// Create finance sessions
	saver := session.NewSaver(financeRepo, saveLocker, session.SaverConfig{
		Timeout: cfg.Budget.SaveTimeout,
		LockTTL: cfg.Budget.SaveLockTTL,
	})
	store := session.NewStore(financeRepo, saver, cfg.Budget.SessionIdleTTL)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create finance use cases
	financeUseCases := controller.FinanceUseCases{
		GetState:          finance.NewGetStateUseCase(store),
		ReplaceState:      finance.NewReplaceStateUseCase(store),
		AddIncome:         finance.NewAddIncomeUseCase(store),
		EditIncome:        finance.NewEditIncomeUseCase(store),
		DeleteIncome:      finance.NewDeleteIncomeUseCase(store),
		SetAllocation:     finance.NewSetAllocationUseCase(store),
		AddSubcategory:    finance.NewAddSubcategoryUseCase(store),
		RenameSubcategory: finance.NewRenameSubcategoryUseCase(store),
		DeleteSubcategory: finance.NewDeleteSubcategoryUseCase(store),
		AddExpense:        finance.NewAddExpenseUseCase(store),
		EditExpense:       finance.NewEditExpenseUseCase(store),
		DeleteExpense:     finance.NewDeleteExpenseUseCase(store),
		Transfer:          finance.NewTransferUseCase(store),
		GetHistory:        finance.NewGetHistoryUseCase(store),
		ExportHistory:     finance.NewExportHistoryUseCase(store, exporter),
	}

	// Create installment use cases
	installmentUseCases := controller.InstallmentUseCases{
		AddEMI:     installment.NewAddEMIUseCase(store),
		EditEMI:    installment.NewEditEMIUseCase(store),
		DeleteEMI:  installment.NewDeleteEMIUseCase(store),
		PayEMI:     installment.NewPayEMIUseCase(store),
		AddDebt:    installment.NewAddDebtUseCase(store),
		EditDebt:   installment.NewEditDebtUseCase(store),
		DeleteDebt: installment.NewDeleteDebtUseCase(store),
		PayDebt:    installment.NewPayDebtUseCase(store),
	}

	// Create reminder worker
	var reminderWorker *email.Worker
	if sender != nil {
		renderer, err := templates.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
		collect := reminder.NewCollectDueRemindersUseCase(financeRepo, userRepo, persistence.NewReminderLedger(redisClient))
		reminderWorker = email.NewWorker(collect, sender, renderer, email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			AppBaseURL:   cfg.Email.AppBaseURL,
		})
	}

	// Create controllers
	healthController := controller.NewHealthController(database.HealthCheck, cache.HealthCheck)
	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)
	financeController := controller.NewFinanceController(financeUseCases)
	installmentController := controller.NewInstallmentController(installmentUseCases)

	// Create middleware
	authRateLimiter := middleware.NewRateLimiterWithConfig(
		redisClient, "auth", cfg.Server.RateLimitAttempts, cfg.Server.RateLimitWindow,
	)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		financeController,
		installmentController,
		authRateLimiter,
		authMiddleware,
		cfg.Server.AllowedOrigins,
	)

	return &Injector{
		Config:         cfg,
		DB:             conn,
		Redis:          redisClient,
		Router:         r,
		Store:          store,
		Saver:          saver,
		ReminderWorker: reminderWorker,
	}, nil
}

// Start runs the background components until ctx is cancelled. Wait on
// Saver.Done before closing the database so pending saves are written.
func (i *Injector) Start(ctx context.Context) {
	go i.Saver.Start(ctx)
	go i.Store.Start(ctx)
	if i.ReminderWorker != nil {
		go i.ReminderWorker.Start(ctx)
	}
}
