package controller

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/importer"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/dto"
)

// ImportController handles journal upload endpoints.
type ImportController struct {
	previewUseCase *importer.PreviewUseCase
	commitUseCase  *importer.CommitUseCase
	maxUploadBytes int64
}

// NewImportController creates a new import controller instance.
func NewImportController(
	previewUseCase *importer.PreviewUseCase,
	commitUseCase *importer.CommitUseCase,
	maxUploadBytes int64,
) *ImportController {
	return &ImportController{
		previewUseCase: previewUseCase,
		commitUseCase:  commitUseCase,
		maxUploadBytes: maxUploadBytes,
	}
}

// uploadRequest is the JSON alternative to a multipart upload.
type uploadRequest struct {
	Content string `json:"content" binding:"required"`
}

// Preview handles POST /organizations/:id/import/preview requests.
func (c *ImportController) Preview(ctx *gin.Context) {
	orgID, ok := parseOrganizationID(ctx)
	if !ok {
		return
	}

	content, ok := c.readUpload(ctx)
	if !ok {
		return
	}

	output, err := c.previewUseCase.Execute(ctx.Request.Context(), importer.PreviewInput{
		OrganizationID: orgID,
		Content:        content,
	})
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPreviewResponse(output))
}

// Commit handles POST /organizations/:id/import/commit requests.
func (c *ImportController) Commit(ctx *gin.Context) {
	orgID, ok := parseOrganizationID(ctx)
	if !ok {
		return
	}

	var req dto.CommitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	rows, decodeErrors := req.ToCommitRows()
	if len(rows) == 0 {
		if len(decodeErrors) == 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "At least one transaction is required",
				Code:  string(domainerror.ErrCodeEmptyCommit),
			})
			return
		}
		// Row-level failures stay non-fatal even when every row failed to
		// decode. Report them instead of an empty-commit error.
		ctx.JSON(http.StatusOK, dto.CommitResponse{
			ProcessedCount: len(decodeErrors),
			Errors:         decodeErrors,
		})
		return
	}

	output, err := c.commitUseCase.Execute(ctx.Request.Context(), importer.CommitInput{
		OrganizationID: orgID,
		Rows:           rows,
	})
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCommitResponse(output, decodeErrors))
}

// readUpload extracts the uploaded file bytes from either a multipart form
// field named "file" or a JSON body with base64 content. It enforces the
// upload size limit and writes its own error responses.
func (c *ImportController) readUpload(ctx *gin.Context) ([]byte, bool) {
	contentType := ctx.ContentType()

	if strings.HasPrefix(contentType, "multipart/") {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Multipart field \"file\" is required",
			})
			return nil, false
		}
		if fileHeader.Size > c.maxUploadBytes {
			c.rejectTooLarge(ctx)
			return nil, false
		}
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Failed to read uploaded file",
			})
			return nil, false
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, c.maxUploadBytes+1))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Failed to read uploaded file",
			})
			return nil, false
		}
		if int64(len(content)) > c.maxUploadBytes {
			c.rejectTooLarge(ctx)
			return nil, false
		}
		return content, true
	}

	var req uploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return nil, false
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Content must be base64 encoded",
		})
		return nil, false
	}
	if int64(len(content)) > c.maxUploadBytes {
		c.rejectTooLarge(ctx)
		return nil, false
	}
	return content, true
}

func (c *ImportController) rejectTooLarge(ctx *gin.Context) {
	ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
		Error: "Uploaded file exceeds the size limit",
		Code:  string(domainerror.ErrCodeUploadTooLarge),
	})
}

// handleImportError maps import errors to HTTP responses.
func (c *ImportController) handleImportError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrOrganizationNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Organization not found",
			Code:  string(domainerror.ErrCodeOrganizationNotFound),
		})
		return
	}

	var impErr *domainerror.ImportError
	if errors.As(err, &impErr) {
		ctx.JSON(c.statusCodeForImportError(impErr.Code), dto.ErrorResponse{
			Error: impErr.Message,
			Code:  string(impErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForImportError maps import error codes to HTTP status codes.
func (c *ImportController) statusCodeForImportError(code domainerror.ImportErrorCode) int {
	switch code {
	case domainerror.ErrCodeUndecodableFile,
		domainerror.ErrCodeUnrecognizedHeader,
		domainerror.ErrCodeNoDataRows:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeEmptyUpload,
		domainerror.ErrCodeEmptyCommit:
		return http.StatusBadRequest
	case domainerror.ErrCodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
