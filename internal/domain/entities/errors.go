package entities

import "errors"

// Sentinel errors for missing resources; handlers map these to 404.
var (
	ErrUploadNotFound          = errors.New("uploaded dataset not found")
	ErrCleanedArtifactNotFound = errors.New("cleaned CSV not found for this upload")
)

// ValidationError marks user-correctable input failures; handlers map it
// to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
