// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ondesc/backend/internal/domain/entity"
)

// ErrorResponse represents an error response in the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// IssueResponse is one field-level problem in an envelope response.
type IssueResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// EnvelopeResponse wraps calculation responses.
// Success is false when any issue is critical.
type EnvelopeResponse struct {
	Success bool            `json:"success"`
	Errors  []IssueResponse `json:"errors"`
	Data    any             `json:"data"`
}

// CriticalResponse builds an envelope holding a single critical issue.
func CriticalResponse(field, message string) EnvelopeResponse {
	return EnvelopeResponse{
		Success: false,
		Errors: []IssueResponse{
			{Field: field, Message: message, Level: string(entity.IssueLevelCritical)},
		},
	}
}

// ToIssueResponses converts domain issues to IssueResponse DTOs.
func ToIssueResponses(issues []entity.Issue) []IssueResponse {
	responses := make([]IssueResponse, len(issues))
	for i, issue := range issues {
		responses[i] = IssueResponse{
			Field:   issue.Field,
			Message: issue.Message,
			Level:   string(issue.Level),
		}
	}
	return responses
}

// NewEnvelopeResponse builds an envelope from issues and optional data.
func NewEnvelopeResponse(issues []entity.Issue, data any) EnvelopeResponse {
	return EnvelopeResponse{
		Success: !entity.HasCritical(issues),
		Errors:  ToIssueResponses(issues),
		Data:    data,
	}
}
