// Package handlers defines HTTP-layer error codes used across all API
// endpoints. The constants form a stable, machine-readable taxonomy that
// supplements human-readable messages; handlers select the most specific
// matching code and pass it to fail() with the corresponding status.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
