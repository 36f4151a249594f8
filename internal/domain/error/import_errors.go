// Package error defines domain-specific errors for the Marumie backend.
package error

import "errors"

// Import domain errors. Structural failures are fatal for the whole upload;
// row-level problems are reported per row and never surface as errors.
var (
	// ErrUndecodableFile is returned when the uploaded bytes cannot be decoded
	// under any candidate charset.
	ErrUndecodableFile = errors.New("file could not be decoded")

	// ErrUnrecognizedHeader is returned when the first row does not match the
	// expected journal export header signature.
	ErrUnrecognizedHeader = errors.New("unrecognized CSV header")

	// ErrNoDataRows is returned when the file contains a header but no data rows.
	ErrNoDataRows = errors.New("CSV contains no data rows")

	// ErrEmptyUpload is returned when the uploaded file is empty.
	ErrEmptyUpload = errors.New("uploaded file is empty")

	// ErrUploadTooLarge is returned when the uploaded file exceeds the size limit.
	ErrUploadTooLarge = errors.New("uploaded file exceeds size limit")
)

// ImportErrorCode defines error codes for import errors.
// Format: IMP-XXYYYY where XX is category and YYYY is specific error.
type ImportErrorCode string

const (
	// Structural errors (01XXXX)
	ErrCodeUndecodableFile    ImportErrorCode = "IMP-010001"
	ErrCodeUnrecognizedHeader ImportErrorCode = "IMP-010002"
	ErrCodeNoDataRows         ImportErrorCode = "IMP-010003"
	ErrCodeEmptyUpload        ImportErrorCode = "IMP-010004"
	ErrCodeUploadTooLarge     ImportErrorCode = "IMP-010005"

	// Commit errors (02XXXX)
	ErrCodeEmptyCommit         ImportErrorCode = "IMP-020001"
	ErrCodeImportInternalError ImportErrorCode = "IMP-020002"
)

// ImportError represents an import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError with the given code and message.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
