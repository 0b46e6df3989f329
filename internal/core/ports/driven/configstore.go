package driven

// ConfigStore persists application settings as flat dotted keys
// (e.g. "retrieval.top_k"). The typed getters absorb the numeric
// widening a serialisation round-trip introduces, returning the zero
// value for absent keys or wrong types so callers can layer their own
// defaults on top.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value, or "" if absent or not a string.
	GetString(key string) string

	// GetInt returns the value, or 0 if absent or not numeric.
	GetInt(key string) int

	// GetFloat returns the value, or 0 if absent or not numeric.
	GetFloat(key string) float64

	// GetBool returns the value, or false if absent or not a bool.
	GetBool(key string) bool

	// GetStringSlice returns the value, or nil if absent or not a
	// slice of strings.
	GetStringSlice(key string) []string

	// Set stores and immediately persists one value.
	Set(key string, value any) error

	// Save writes the current settings to storage.
	Save() error

	// Load replaces the in-memory settings with the stored ones.
	Load() error

	// Path returns where the settings live, for display.
	Path() string
}
