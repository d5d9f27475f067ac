package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/dto"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/validation"
)

// FinanceUseCases groups the use cases served by FinanceController.
type FinanceUseCases struct {
	GetState          *finance.GetStateUseCase
	ReplaceState      *finance.ReplaceStateUseCase
	AddIncome         *finance.AddIncomeUseCase
	EditIncome        *finance.EditIncomeUseCase
	DeleteIncome      *finance.DeleteIncomeUseCase
	SetAllocation     *finance.SetAllocationUseCase
	AddSubcategory    *finance.AddSubcategoryUseCase
	RenameSubcategory *finance.RenameSubcategoryUseCase
	DeleteSubcategory *finance.DeleteSubcategoryUseCase
	AddExpense        *finance.AddExpenseUseCase
	EditExpense       *finance.EditExpenseUseCase
	DeleteExpense     *finance.DeleteExpenseUseCase
	Transfer          *finance.TransferUseCase
	GetHistory        *finance.GetHistoryUseCase
	ExportHistory     *finance.ExportHistoryUseCase
}

// FinanceController handles budget endpoints.
type FinanceController struct {
	uc FinanceUseCases
}

// NewFinanceController creates a new finance controller instance.
func NewFinanceController(useCases FinanceUseCases) *FinanceController {
	return &FinanceController{uc: useCases}
}

// GetState handles GET /budget requests.
func (c *FinanceController) GetState(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.GetState.Execute(ctx.Request.Context(), finance.GetStateInput{UserID: userID})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// ReplaceState handles PUT /budget requests.
func (c *FinanceController) ReplaceState(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.FinanceDocument
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.ReplaceState.Execute(ctx.Request.Context(), finance.ReplaceStateInput{
		UserID: userID,
		State:  req.ToEntity(),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// AddIncome handles POST /budget/income requests.
func (c *FinanceController) AddIncome(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddIncomeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.AddIncome.Execute(ctx.Request.Context(), finance.AddIncomeInput{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Source:      req.Source,
		Date:        dateOrNow(req.Date),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFinanceStateResponse(output.StateOutput))
}

// EditIncome handles PATCH /budget/income/:id requests.
func (c *FinanceController) EditIncome(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.EditIncomeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.EditIncome.Execute(ctx.Request.Context(), finance.EditIncomeInput{
		UserID:      userID,
		IncomeID:    ctx.Param("id"),
		Amount:      req.Amount,
		Description: req.Description,
		Source:      req.Source,
		Date:        dateOrZero(req.Date),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// DeleteIncome handles DELETE /budget/income/:id requests.
func (c *FinanceController) DeleteIncome(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.DeleteIncome.Execute(ctx.Request.Context(), finance.DeleteIncomeInput{
		UserID:   userID,
		IncomeID: ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// SetAllocation handles PATCH /budget/categories/:categoryId/subcategories/:subId/allocation requests.
func (c *FinanceController) SetAllocation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SetAllocationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.SetAllocation.Execute(ctx.Request.Context(), finance.SetAllocationInput{
		UserID:        userID,
		CategoryID:    ctx.Param("categoryId"),
		SubcategoryID: ctx.Param("subId"),
		Amount:        *req.Amount,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// AddSubcategory handles POST /budget/categories/:categoryId/subcategories requests.
func (c *FinanceController) AddSubcategory(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddSubcategoryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.AddSubcategory.Execute(ctx.Request.Context(), finance.AddSubcategoryInput{
		UserID:     userID,
		CategoryID: ctx.Param("categoryId"),
		Name:       req.Name,
		Percentage: req.Percentage,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFinanceStateResponse(output.StateOutput))
}

// RenameSubcategory handles PATCH /budget/categories/:categoryId/subcategories/:subId requests.
func (c *FinanceController) RenameSubcategory(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.RenameSubcategoryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.RenameSubcategory.Execute(ctx.Request.Context(), finance.RenameSubcategoryInput{
		UserID:        userID,
		CategoryID:    ctx.Param("categoryId"),
		SubcategoryID: ctx.Param("subId"),
		Name:          req.Name,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// DeleteSubcategory handles DELETE /budget/categories/:categoryId/subcategories/:subId requests.
func (c *FinanceController) DeleteSubcategory(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.DeleteSubcategory.Execute(ctx.Request.Context(), finance.DeleteSubcategoryInput{
		UserID:        userID,
		CategoryID:    ctx.Param("categoryId"),
		SubcategoryID: ctx.Param("subId"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// AddExpense handles POST /budget/subcategories/:subId/expenses requests.
func (c *FinanceController) AddExpense(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddExpenseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.AddExpense.Execute(ctx.Request.Context(), finance.AddExpenseInput{
		UserID:        userID,
		SubcategoryID: ctx.Param("subId"),
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          dateOrNow(req.Date),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFinanceStateResponse(output.StateOutput))
}

// EditExpense handles PATCH /budget/expenses/:id requests.
func (c *FinanceController) EditExpense(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.EditExpenseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.EditExpense.Execute(ctx.Request.Context(), finance.EditExpenseInput{
		UserID:        userID,
		TransactionID: ctx.Param("id"),
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// DeleteExpense handles DELETE /budget/expenses/:id requests.
func (c *FinanceController) DeleteExpense(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.DeleteExpense.Execute(ctx.Request.Context(), finance.DeleteExpenseInput{
		UserID:        userID,
		TransactionID: ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// Transfer handles POST /budget/transfers requests.
func (c *FinanceController) Transfer(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.Transfer.Execute(ctx.Request.Context(), finance.TransferInput{
		UserID:         userID,
		FromCategoryID: req.FromCategoryID,
		ToCategoryID:   req.ToCategoryID,
		Amount:         req.Amount,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// History handles GET /budget/transactions requests.
func (c *FinanceController) History(ctx *gin.Context) {
	input, ok := historyInput(ctx)
	if !ok {
		return
	}

	history, err := c.uc.GetHistory.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

// ExportHistory handles GET /budget/transactions/export requests.
func (c *FinanceController) ExportHistory(ctx *gin.Context) {
	input, ok := historyInput(ctx)
	if !ok {
		return
	}

	output, err := c.uc.ExportHistory.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

func historyInput(ctx *gin.Context) (finance.GetHistoryInput, bool) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return finance.GetHistoryInput{}, false
	}

	var query dto.HistoryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid query parameters",
			Code:    string(domainerror.ErrCodeMissingBudgetFields),
			Details: validation.Describe(err),
		})
		return finance.GetHistoryInput{}, false
	}

	return finance.GetHistoryInput{
		UserID:     userID,
		Period:     budget.Period(query.Period),
		CategoryID: query.Category,
		Search:     query.Search,
	}, true
}

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// bindJSON decodes and validates the request body or writes a 400.
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingBudgetFields),
			Details: validation.Describe(err),
		})
		return false
	}
	return true
}

func dateOrNow(date *time.Time) time.Time {
	if date == nil || date.IsZero() {
		return time.Now()
	}
	return *date
}

func dateOrZero(date *time.Time) time.Time {
	if date == nil {
		return time.Time{}
	}
	return *date
}

// handleBudgetError handles budget errors and returns appropriate HTTP responses.
func handleBudgetError(ctx *gin.Context, err error) {
	var budgetErr *domainerror.BudgetError
	if errors.As(domainerror.AsBudgetError(err), &budgetErr) {
		ctx.JSON(getStatusCodeForBudgetError(budgetErr.Code), dto.ErrorResponse{
			Error: budgetErr.Message,
			Code:  string(budgetErr.Code),
		})
		return
	}

	_ = ctx.Error(err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForBudgetError maps budget error codes to HTTP status codes.
func getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound,
		domainerror.ErrCodeSubcategoryNotFound,
		domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeInstallmentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNoAllocation,
		domainerror.ErrCodeAllocationExceeded,
		domainerror.ErrCodeSoleSubcategory,
		domainerror.ErrCodeSameCategory,
		domainerror.ErrCodeInstallmentInactive:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidPercentage,
		domainerror.ErrCodeEmptyName,
		domainerror.ErrCodeInvalidTenure,
		domainerror.ErrCodeMissingBudgetFields,
		domainerror.ErrCodeInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
