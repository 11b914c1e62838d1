// Package resultstore provides pluggable storage for computed plan results.
// The engine is deterministic, so a result can be served from a store keyed by
// a digest of the exact inputs instead of being recomputed.
package resultstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"debtplan/internal/core"
)

// Store is the result store contract shared by the memory and redis backends.
type Store interface {
	// Get retrieves a previously stored plan result by input digest.
	Get(ctx context.Context, key string) (*core.PlanResult, bool)

	// Set stores a plan result under an input digest.
	Set(ctx context.Context, key string, result *core.PlanResult) error
}

// Fingerprint digests a complete simulation input (loans, settings, start
// date) into a stable cache key. Identical inputs always produce the same
// digest, mirroring the engine's own determinism.
func Fingerprint(loans []core.LoanInput, settings core.PlannerSettings, start time.Time) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding errors cannot occur for these plain value types.
	_ = enc.Encode(loans)
	_ = enc.Encode(settings)
	_ = enc.Encode(start.UTC().Format(time.RFC3339))
	return hex.EncodeToString(h.Sum(nil))
}
