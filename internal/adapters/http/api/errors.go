package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingCredentials = errors.New("missing webhook credentials")
	ErrInvalidCredentials = errors.New("invalid webhook credentials")
	ErrMissingTenant      = errors.New("missing tenant_id")
	ErrRateLimited        = errors.New("rate limit exceeded")
)
