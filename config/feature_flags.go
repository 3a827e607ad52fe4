package config

import (
	"os"
	"strings"
	"sync"
)

// FeatureFlags manages engine feature toggles. Flags are read from
// environment variables at load time and may be flipped at runtime for
// tests.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]bool
}

// Predefined feature flag names.
const (
	// FeatureProgressAuditEvents records a progress_events audit row for
	// every progress application, in the same transaction as the mutation.
	FeatureProgressAuditEvents = "progress_audit_events"

	// FeatureStatsCache serves per-member stats from the Redis cache.
	FeatureStatsCache = "stats_cache"

	// FeatureLeaderboardCache serves the leaderboard from a Redis sorted
	// set instead of a ledger aggregation query.
	FeatureLeaderboardCache = "leaderboard_cache"
)

// defaultFlags lists every known flag with its default state.
var defaultFlags = map[string]bool{
	FeatureProgressAuditEvents: true,
	FeatureStatsCache:          true,
	FeatureLeaderboardCache:    true,
}

// LoadFeatureFlags reads flags from FEATURE_<NAME> environment variables,
// falling back to defaults.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{features: make(map[string]bool, len(defaultFlags))}
	for name, def := range defaultFlags {
		envKey := "FEATURE_" + strings.ToUpper(name)
		ff.features[name] = envFlag(envKey, def)
	}
	return ff
}

// IsEnabled reports whether a flag is on. Unknown flags are off.
func (f *FeatureFlags) IsEnabled(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.features[name]
}

// Set flips a flag at runtime.
func (f *FeatureFlags) Set(name string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.features[name] = enabled
}

func envFlag(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
