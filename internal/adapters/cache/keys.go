package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Namespace prefixes. Every key the service writes lives under the
// ats: prefix; kinds add a second segment.
const (
	keyPrefix          = "ats:"
	jobsKeyPrefix      = "jobs:"
	aiScoresKeyPrefix  = "ai_scores:"
	rateLimitKeyPrefix = "rate_limit:"
)

func namespaced(key string) string {
	return keyPrefix + key
}

// JobListFilter describes a job-listing query. Identical filter
// sets must always produce the same cache key regardless of how
// the caller assembled them.
type JobListFilter struct {
	TenantID string   `json:"tenant_id"`
	Status   string   `json:"status,omitempty"`
	Location string   `json:"location,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Page     int      `json:"page,omitempty"`
	PerPage  int      `json:"per_page,omitempty"`
}

// JobListKey builds a deterministic key for a filter set. Tags are
// sorted before serialization and struct field order is fixed, so
// property insertion order never changes the key.
func JobListKey(f JobListFilter) string {
	if len(f.Tags) > 0 {
		tags := make([]string, len(f.Tags))
		copy(tags, f.Tags)
		sort.Strings(tags)
		f.Tags = tags
	}
	raw, err := json.Marshal(f)
	if err != nil {
		// Marshal of this struct cannot fail; keep a stable fallback.
		raw = []byte(f.TenantID)
	}
	sum := sha256.Sum256(raw)
	return jobsKeyPrefix + hex.EncodeToString(sum[:16])
}

// AIScoreKey keys a cached score record by assessment id.
func AIScoreKey(assessmentID string) string {
	return aiScoresKeyPrefix + assessmentID
}

// RateLimitKey keys the counter for an identity. It is already
// namespaced; the rate limiter bypasses namespaced().
func RateLimitKey(identity string) string {
	return keyPrefix + rateLimitKeyPrefix + strings.TrimSpace(identity)
}
