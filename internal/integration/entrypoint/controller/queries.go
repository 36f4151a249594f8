package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

const queryDateFormat = "2006-01-02"

// parseOrganizationID reads the :id path parameter. On failure it writes a
// 400 response and returns false.
func parseOrganizationID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid organization ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseYearQuery reads an optional integer query parameter.
func parseYearQuery(ctx *gin.Context, name string) (*int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " parameter",
		})
		return nil, false
	}
	return &year, true
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	date, err := time.Parse(queryDateFormat, raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " parameter, expected YYYY-MM-DD",
		})
		return nil, false
	}
	return &date, true
}

// parseIntQuery reads an optional integer query parameter with a default.
func parseIntQuery(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
