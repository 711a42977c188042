package scoring

import "errors"

// Sentinel kinds for scorer errors.
var (
	// ErrUnavailable indicates the scoring backend failed or timed
	// out; callers must not record a fabricated score.
	ErrUnavailable = errors.New("scoring backend unavailable")
)
