package models

// APIResponse is a generic structure for all API responses
type APIResponse struct {
	Status  string      `json:"status"`            // "success" or "error"
	Code    int         `json:"code"`              // HTTP status code
	Message string      `json:"message,omitempty"` // Human-readable message
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"` // nil on success
}

// APIError holds detailed error information
type APIError struct {
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"` // For validation errors (which field failed)
}

// Error types reported in APIError.Type
const (
	ErrorTypeAuthentication    = "AuthenticationError"
	ErrorTypeAuthorization     = "AuthorizationError"
	ErrorTypeValidation        = "ValidationError"
	ErrorTypeNotFound          = "NotFoundError"
	ErrorTypeInvalidTransition = "InvalidTransitionError"
	ErrorTypeConflict          = "ConflictError"
	ErrorTypeVerification      = "VerificationError"
	ErrorTypeDatabase          = "DatabaseError"
	ErrorTypeToken             = "TokenError"
)

// Pagination describes a page of a list response
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPagination computes page metadata for total items
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
