package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivi-finance/backend/internal/application/usecase/installment"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/dto"
)

// InstallmentUseCases groups the use cases served by InstallmentController.
type InstallmentUseCases struct {
	AddEMI     *installment.AddEMIUseCase
	EditEMI    *installment.EditEMIUseCase
	DeleteEMI  *installment.DeleteEMIUseCase
	PayEMI     *installment.PayEMIUseCase
	AddDebt    *installment.AddDebtUseCase
	EditDebt   *installment.EditDebtUseCase
	DeleteDebt *installment.DeleteDebtUseCase
	PayDebt    *installment.PayDebtUseCase
}

// InstallmentController handles EMI and debt endpoints.
type InstallmentController struct {
	uc InstallmentUseCases
}

// NewInstallmentController creates a new installment controller instance.
func NewInstallmentController(useCases InstallmentUseCases) *InstallmentController {
	return &InstallmentController{uc: useCases}
}

// AddEMI handles POST /budget/emis requests.
func (c *InstallmentController) AddEMI(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddEMIRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.AddEMI.Execute(ctx.Request.Context(), installment.AddEMIInput{
		UserID: userID,
		Name:   req.Name,
		Amount: req.Amount,
		Tenure: req.Tenure,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFinanceStateResponse(output.StateOutput))
}

// EditEMI handles PATCH /budget/emis/:id requests.
func (c *InstallmentController) EditEMI(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.EditEMIRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.EditEMI.Execute(ctx.Request.Context(), installment.EditEMIInput{
		UserID:      userID,
		EMIID:       ctx.Param("id"),
		Name:        req.Name,
		Amount:      req.Amount,
		TenureLeft:  req.TenureLeft,
		TotalTenure: req.TotalTenure,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// DeleteEMI handles DELETE /budget/emis/:id requests.
func (c *InstallmentController) DeleteEMI(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.DeleteEMI.Execute(ctx.Request.Context(), installment.DeleteEMIInput{
		UserID: userID,
		EMIID:  ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// PayEMI handles POST /budget/emis/:id/pay requests.
func (c *InstallmentController) PayEMI(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.PayEMI.Execute(ctx.Request.Context(), installment.PayEMIInput{
		UserID: userID,
		EMIID:  ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// AddDebt handles POST /budget/debts requests.
func (c *InstallmentController) AddDebt(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddDebtRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.AddDebt.Execute(ctx.Request.Context(), installment.AddDebtInput{
		UserID:         userID,
		Name:           req.Name,
		PendingAmount:  req.PendingAmount,
		MonthlyPayment: req.MonthlyPayment,
		ReminderDate:   req.ReminderDate,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFinanceStateResponse(output.StateOutput))
}

// EditDebt handles PATCH /budget/debts/:id requests.
func (c *InstallmentController) EditDebt(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.EditDebtRequest
	if !bindJSON(ctx, &req) {
		return
	}

	output, err := c.uc.EditDebt.Execute(ctx.Request.Context(), installment.EditDebtInput{
		UserID:         userID,
		DebtID:         ctx.Param("id"),
		Name:           req.Name,
		PendingAmount:  req.PendingAmount,
		MonthlyPayment: req.MonthlyPayment,
		ReminderDate:   req.ReminderDate,
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// DeleteDebt handles DELETE /budget/debts/:id requests.
func (c *InstallmentController) DeleteDebt(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.DeleteDebt.Execute(ctx.Request.Context(), installment.DeleteDebtInput{
		UserID: userID,
		DebtID: ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}

// PayDebt handles POST /budget/debts/:id/pay requests.
func (c *InstallmentController) PayDebt(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.uc.PayDebt.Execute(ctx.Request.Context(), installment.PayDebtInput{
		UserID: userID,
		DebtID: ctx.Param("id"),
	})
	if err != nil {
		handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFinanceStateResponse(output))
}
