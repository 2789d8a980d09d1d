package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors.Is works across
// instances created with a different message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeStoreAccessDenied = "STORE_ACCESS_DENIED"
	CodeInvalidState      = "INVALID_STATE"
	CodeConflict          = "CONFLICT"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists     = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized      = NewDomainError(CodeUnauthorized, "Unauthenticated")
	ErrForbidden         = NewDomainError(CodeForbidden, "You do not have the required permission to perform this action.")
	ErrStoreAccessDenied = NewDomainError(CodeStoreAccessDenied, "You do not have access to this store.")
	ErrInvalidState      = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// NotFound returns a not-found error with a resource specific message.
func NotFound(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// Conflict returns a state-conflict error, rendered as 422.
func Conflict(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// Forbidden returns an authorization error with a custom message.
func Forbidden(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// FieldErrors carries per-field validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is returned when input fails validation. It is rendered as
// 422 with the field messages under "errors".
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	fields := FieldErrors{}
	fields.Add(field, message)
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
