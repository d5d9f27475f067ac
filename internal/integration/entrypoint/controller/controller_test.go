package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/application/session"
	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/validation"
)

type memoryRepository struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*entity.FinanceState
}

func (r *memoryRepository) Get(_ context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[userID]; ok {
		return doc.Clone(), nil
	}
	return entity.NewFinanceState(), nil
}

func (r *memoryRepository) Put(_ context.Context, userID uuid.UUID, state *entity.FinanceState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[userID] = state.Clone()
	return nil
}

func (r *memoryRepository) ListUserIDs(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func newFinanceEngine(t *testing.T, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	repo := &memoryRepository{docs: make(map[uuid.UUID]*entity.FinanceState)}
	store := session.NewStore(repo, session.NewSaver(repo, nil, session.DefaultSaverConfig()), time.Minute)
	fc := NewFinanceController(FinanceUseCases{
		GetState:      finance.NewGetStateUseCase(store),
		AddIncome:     finance.NewAddIncomeUseCase(store),
		SetAllocation: finance.NewSetAllocationUseCase(store),
		AddExpense:    finance.NewAddExpenseUseCase(store),
		GetHistory:    finance.NewGetHistoryUseCase(store),
	})

	engine := gin.New()
	if userID != uuid.Nil {
		engine.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}
	engine.GET("/budget", fc.GetState)
	engine.POST("/budget/income", fc.AddIncome)
	engine.PATCH("/budget/categories/:categoryId/subcategories/:subId/allocation", fc.SetAllocation)
	engine.POST("/budget/subcategories/:subId/expenses", fc.AddExpense)
	engine.GET("/budget/transactions", fc.History)
	return engine
}

func serve(engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestFinanceController(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "state of a new user", method: http.MethodGet, path: "/budget", status: http.StatusOK},
		{name: "income is created", method: http.MethodPost, path: "/budget/income", body: `{"amount": 10000}`, status: http.StatusCreated},
		{name: "malformed body", method: http.MethodPost, path: "/budget/income", body: `{"amount": "lots"}`, status: http.StatusBadRequest, code: string(domainerror.ErrCodeMissingBudgetFields)},
		{name: "negative income", method: http.MethodPost, path: "/budget/income", body: `{"amount": -1}`, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidAmount)},
		{name: "unknown category", method: http.MethodPatch, path: "/budget/categories/luxuries/subcategories/x/allocation", body: `{"amount": 1}`, status: http.StatusNotFound, code: string(domainerror.ErrCodeCategoryNotFound)},
		{name: "allocation amount is required", method: http.MethodPatch, path: "/budget/categories/needs/subcategories/x/allocation", body: `{}`, status: http.StatusBadRequest, code: string(domainerror.ErrCodeMissingBudgetFields)},
		{name: "unknown subcategory", method: http.MethodPost, path: "/budget/subcategories/x/expenses", body: `{"amount": 5}`, status: http.StatusNotFound, code: string(domainerror.ErrCodeSubcategoryNotFound)},
		{name: "unknown period", method: http.MethodGet, path: "/budget/transactions?period=decade", status: http.StatusBadRequest, code: string(domainerror.ErrCodeMissingBudgetFields)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFinanceEngine(t, uuid.New())

			rec, body := serve(engine, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestFinanceControllerResponse(t *testing.T) {
	engine := newFinanceEngine(t, uuid.New())

	rec, body := serve(engine, http.MethodPost, "/budget/income", `{"amount": 10000, "description": "Salary"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	categories, ok := body["categories"].([]any)
	require.True(t, ok)
	require.Len(t, categories, 4)
	needs := categories[0].(map[string]any)
	assert.Equal(t, "needs", needs["id"])
	assert.Equal(t, 6000.0, needs["totalAllocated"])

	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10000.0, summary["totalAllocated"])
}

func TestFinanceControllerRequiresUser(t *testing.T) {
	engine := newFinanceEngine(t, uuid.Nil)

	rec, body := serve(engine, http.MethodGet, "/budget", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(domainerror.ErrCodeMissingToken), body["code"])
}

func TestGetStatusCodeForBudgetError(t *testing.T) {
	tests := []struct {
		code     domainerror.BudgetErrorCode
		expected int
	}{
		{domainerror.ErrCodeInvalidAmount, http.StatusBadRequest},
		{domainerror.ErrCodeInvalidState, http.StatusBadRequest},
		{domainerror.ErrCodeTransactionNotFound, http.StatusNotFound},
		{domainerror.ErrCodeInstallmentNotFound, http.StatusNotFound},
		{domainerror.ErrCodeSoleSubcategory, http.StatusUnprocessableEntity},
		{domainerror.ErrCodeInstallmentInactive, http.StatusUnprocessableEntity},
		{domainerror.BudgetErrorCode("BUD-999999"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, getStatusCodeForBudgetError(tt.code))
		})
	}
}

func TestHandleBudgetErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	handleBudgetError(ctx, fmt.Errorf("wrapped: %w", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Len(t, ctx.Errors, 1)
}
