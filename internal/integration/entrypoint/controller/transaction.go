package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/transaction"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction listing and correction endpoints.
type TransactionController struct {
	listUseCase   *transaction.ListTransactionsUseCase
	updateUseCase *transaction.UpdateTransactionUseCase
	deleteUseCase *transaction.DeleteTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /organizations/:id/transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	orgID, ok := parseOrganizationID(ctx)
	if !ok {
		return
	}

	financialYear, ok := parseYearQuery(ctx, "financial_year")
	if !ok {
		return
	}
	startDate, ok := parseDateQuery(ctx, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateQuery(ctx, "end_date")
	if !ok {
		return
	}

	var txnType *entity.TransactionType
	if raw := ctx.Query("type"); raw != "" {
		t := entity.TransactionType(raw)
		if !t.IsValid() {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid type parameter",
			})
			return
		}
		txnType = &t
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), transaction.ListTransactionsInput{
		OrganizationID: orgID,
		FinancialYear:  financialYear,
		StartDate:      startDate,
		EndDate:        endDate,
		Type:           txnType,
		CategoryKey:    ctx.Query("category_key"),
		Search:         ctx.Query("search"),
		Page:           parseIntQuery(ctx, "page", 0),
		Limit:          parseIntQuery(ctx, "limit", 0),
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	responses := make([]dto.TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		responses[i] = dto.ToTransactionResponse(txn)
	}
	ctx.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: responses,
		Total:        output.Total,
		Page:         output.Page,
		Limit:        output.Limit,
		TotalPages:   output.TotalPages,
	})
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID",
		})
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := transaction.UpdateTransactionInput{
		ID:            id,
		DebitAccount:  req.DebitAccount,
		DebitAmount:   req.DebitAmount,
		CreditAccount: req.CreditAccount,
		CreditAmount:  req.CreditAmount,
		Description:   req.Description,
		Memo:          req.Memo,
	}
	if req.Date != nil {
		date, err := time.Parse(queryDateFormat, *req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		input.Date = &date
	}

	txn, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID",
		})
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), id); err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleTransactionError maps transaction errors to HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrOrganizationNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Organization not found",
			Code:  string(domainerror.ErrCodeOrganizationNotFound),
		})
		return
	}
	if errors.Is(err, domainerror.ErrTransactionNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Transaction not found",
			Code:  string(domainerror.ErrCodeTransactionNotFound),
		})
		return
	}
	if errors.Is(err, domainerror.ErrDuplicateTransaction) {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "An identical transaction already exists",
			Code:  string(domainerror.ErrCodeDuplicateTransaction),
		})
		return
	}

	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
