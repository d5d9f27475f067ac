//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/nivi-finance/backend/config"
	infradb "github.com/nivi-finance/backend/internal/infra/db"
	"github.com/nivi-finance/backend/internal/infra/dependency"
	"github.com/nivi-finance/backend/internal/integration/email"
	"github.com/nivi-finance/backend/internal/integration/persistence/model"
	"github.com/nivi-finance/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// harness is the application under test, built once per suite.
type harness struct {
	server   *httptest.Server
	injector *dependency.Injector
	db       *mock.Db
	clock    *mock.Time
	emailAPI *mock.ApiMock
}

var app *harness

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	statusCode     int
	responseHeader http.Header
	responseBody   []byte
	requestHeaders map[string]string

	// Auth
	accessToken  string
	refreshToken string

	// Values remembered from earlier responses, substituted for {{name}}.
	remembered map[string]string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite starts the application against sqlite, miniredis and a
// fake Resend API before any scenario runs.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		h, err := newHarness()
		if err != nil {
			panic(fmt.Sprintf("failed to start test application: %v", err))
		}
		app = h
	})

	ctx.AfterSuite(func() {
		if app == nil {
			return
		}
		app.injector.Saver.Flush(context.Background())
		app.server.Close()
		app.emailAPI.Close()
	})
}

func newHarness() (*harness, error) {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = nil
	cfg.Server.RateLimitAttempts = 1000
	cfg.Server.RateLimitWindow = time.Minute
	cfg.JWT.Secret = testJWTSecret
	cfg.Redis.CacheTTL = time.Minute
	cfg.Email.AppBaseURL = "http://app.nivi.test"

	db := mock.NewDb(map[string]any{
		"users":             &model.UserModel{},
		"finance_documents": &model.FinanceDocumentModel{},
	})
	redisClient := mock.NewRedis()

	emailAPI := mock.NewApiServer()
	emailAPI.Start()

	sender, err := email.NewResendClientWithBaseURL("re_test_key", "Nivi Finance", "reminders@nivi.test", emailAPI.GetUrl())
	if err != nil {
		return nil, err
	}

	injector, err := dependency.NewInjector(cfg, infradb.NewDatabase(db.DbConn), infradb.NewRedis(redisClient), sender)
	if err != nil {
		return nil, err
	}

	// Background loops stay off: saves are flushed and reminders processed
	// by explicit steps so scenarios are deterministic.
	clock := mock.NewTime()
	injector.ReminderWorker.SetClock(clock.Now)

	return &harness{
		server:   httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
		injector: injector,
		db:       db,
		clock:    clock,
		emailAPI: emailAPI,
	}, nil
}

// reset puts shared state back to empty between scenarios.
func (h *harness) reset() error {
	h.injector.Saver.Flush(context.Background())
	if err := h.db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(h.injector.Redis); err != nil {
		return err
	}
	h.emailAPI.Reset()
	h.emailAPI.SetResponse(http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "email-test-id"})
	h.clock.Reset()
	return nil
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if app == nil {
			return ctx, fmt.Errorf("test application is not running")
		}
		if err := app.reset(); err != nil {
			return ctx, fmt.Errorf("failed to reset test state: %w", err)
		}
		tc := &TestContext{
			requestHeaders: make(map[string]string),
			remembered:     make(map[string]string),
		}
		return SetTestContext(ctx, tc), nil
	})

	registerAuthSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerBackgroundSteps(ctx)
}
