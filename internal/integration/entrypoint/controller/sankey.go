package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/sankey"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

// SankeyController handles the money-flow graph endpoint.
type SankeyController struct {
	getGraphUseCase *sankey.GetGraphUseCase
}

// NewSankeyController creates a new sankey controller instance.
func NewSankeyController(getGraphUseCase *sankey.GetGraphUseCase) *SankeyController {
	return &SankeyController{getGraphUseCase: getGraphUseCase}
}

// Get handles GET /organizations/:id/sankey requests.
func (c *SankeyController) Get(ctx *gin.Context) {
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

	graph, err := c.getGraphUseCase.Execute(ctx.Request.Context(), sankey.GetGraphInput{
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

	ctx.JSON(http.StatusOK, dto.ToSankeyResponse(graph))
}
