package domain

import "errors"

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrProjectNotFound = errors.New("project not found")

	// ErrValidation wraps every rejected user input.
	ErrValidation = errors.New("validation failed")

	// ErrExportClientNotFound is returned when a quote cannot be exported
	// because its client no longer exists.
	ErrExportClientNotFound = errors.New("export: client not found")

	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrSubmissionInProgress is returned when an intake submission with the
	// same idempotency key is still being recorded.
	ErrSubmissionInProgress = errors.New("submission in progress")
)
