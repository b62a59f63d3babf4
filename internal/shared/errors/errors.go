package errors

import "errors"

// Domain errors
var (
	// Scan errors
	ErrEmptyDomain      = errors.New("root domain cannot be empty")
	ErrInvalidDomain    = errors.New("invalid root domain")
	ErrScanInterrupted  = errors.New("scan interrupted")
	ErrNoSubdomains     = errors.New("no subdomains discovered")

	// Report errors
	ErrReportNotFound     = errors.New("report not found")
	ErrReportCorrupted    = errors.New("stored report could not be decoded")
	ErrEmptyReportResults = errors.New("report has no results")

	// Repository errors
	ErrRepositoryOperation   = errors.New("repository operation failed")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
