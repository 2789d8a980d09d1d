package dto

import "github.com/storehub/backend/internal/domain/shared"

// Response is the envelope of every API response
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Pagination describes one page of a listing
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// NewPagination extracts the page metadata of p
func NewPagination[T any](p shared.Paginated[T]) Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// NewValidationErrorResponse creates a 422 body with per-field messages
func NewValidationErrorResponse(message string, fields map[string][]string) Response {
	return Response{
		Success: false,
		Message: message,
		Errors:  fields,
	}
}

// ListRequest represents common list/pagination query parameters.
// Out-of-range page sizes are clamped rather than rejected.
type ListRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query into a normalized domain filter
func (r ListRequest) Filter() shared.Filter {
	return shared.Filter{
		Page:      r.Page,
		PerPage:   r.PerPage,
		Search:    r.Search,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
	}.Normalize()
}
