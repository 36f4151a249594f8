package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/organization"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

// OrganizationController handles organization management endpoints.
type OrganizationController struct {
	createUseCase *organization.CreateOrganizationUseCase
	listUseCase   *organization.ListOrganizationsUseCase
	getUseCase    *organization.GetOrganizationUseCase
}

// NewOrganizationController creates a new organization controller instance.
func NewOrganizationController(
	createUseCase *organization.CreateOrganizationUseCase,
	listUseCase *organization.ListOrganizationsUseCase,
	getUseCase *organization.GetOrganizationUseCase,
) *OrganizationController {
	return &OrganizationController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
	}
}

// Create handles POST /organizations requests.
func (c *OrganizationController) Create(ctx *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	org, err := c.createUseCase.Execute(ctx.Request.Context(), organization.CreateOrganizationInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		c.handleOrganizationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// List handles GET /organizations requests.
func (c *OrganizationController) List(ctx *gin.Context) {
	orgs, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleOrganizationError(ctx, err)
		return
	}

	responses := make([]dto.OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = dto.ToOrganizationResponse(org)
	}
	ctx.JSON(http.StatusOK, dto.ListOrganizationsResponse{Organizations: responses})
}

// Get handles GET /organizations/:id requests.
func (c *OrganizationController) Get(ctx *gin.Context) {
	orgID, ok := parseOrganizationID(ctx)
	if !ok {
		return
	}

	org, err := c.getUseCase.Execute(ctx.Request.Context(), orgID)
	if err != nil {
		c.handleOrganizationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// handleOrganizationError maps organization errors to HTTP responses.
func (c *OrganizationController) handleOrganizationError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrOrganizationNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Organization not found",
			Code:  string(domainerror.ErrCodeOrganizationNotFound),
		})
		return
	}
	if errors.Is(err, domainerror.ErrOrganizationSlugTaken) {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "Organization slug is already taken",
			Code:  string(domainerror.ErrCodeOrganizationSlugTaken),
		})
		return
	}

	var orgErr *domainerror.OrganizationError
	if errors.As(err, &orgErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: orgErr.Message,
			Code:  string(orgErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
