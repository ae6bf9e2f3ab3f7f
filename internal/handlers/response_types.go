package handlers

import (
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total  int64 `json:"total" example:"150"`
	Offset int   `json:"offset" example:"0"`
	Limit  int   `json:"limit" example:"20"`
}

// SubmitLectureResponse represents the response for an accepted upload
type SubmitLectureResponse struct {
	Message string          `json:"message" example:"Lecture queued for processing"`
	Lecture lecture.Lecture `json:"lecture"`
}

// LectureResponse represents the response for getting a single lecture
type LectureResponse struct {
	Lecture lecture.Lecture `json:"lecture"`
}

// ListLecturesResponse represents the response for listing lectures
type ListLecturesResponse struct {
	Lectures   []lecture.Lecture `json:"lectures"`
	Pagination PaginationInfo    `json:"pagination"`
}

// CleanTranscriptRequest carries raw transcript text to normalize
type CleanTranscriptRequest struct {
	Text string `json:"text" example:"so so so today we we talk about entropy"`
}

// CleanTranscriptResponse carries the normalized transcript
type CleanTranscriptResponse struct {
	Text string `json:"text" example:"so today we talk about entropy"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
