// Package dto defines request and response payloads for the HTTP surface.
package dto

// ErrorResponse is the common error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
