package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/summary"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

// SummaryController handles the financial summary endpoint.
type SummaryController struct {
	getSummaryUseCase *summary.GetSummaryUseCase
}

// NewSummaryController creates a new summary controller instance.
func NewSummaryController(getSummaryUseCase *summary.GetSummaryUseCase) *SummaryController {
	return &SummaryController{getSummaryUseCase: getSummaryUseCase}
}

// Get handles GET /organizations/:id/summary requests.
func (c *SummaryController) Get(ctx *gin.Context) {
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

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), summary.GetSummaryInput{
		OrganizationID: orgID,
		FinancialYear:  financialYear,
		StartDate:      startDate,
		EndDate:        endDate,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrOrganizationNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error: "Organization not found",
				Code:  string(domainerror.ErrCodeOrganizationNotFound),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}
