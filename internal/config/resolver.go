// Package config resolves named configuration values from project
// properties and the process environment.
package config

import (
	"os"
	"strings"

	"github.com/ochairo/decant/internal/domain/interfaces"
)

// Resolver looks up configuration values by key. Project properties win
// over environment variables; a key present in neither resolves to "".
type Resolver struct {
	props  map[string]string
	logger interfaces.Logger
}

// NewResolver creates a resolver over the given property map. A nil map is
// treated as empty; a nil logger disables resolution logging.
func NewResolver(props map[string]string, logger interfaces.Logger) *Resolver {
	if props == nil {
		props = map[string]string{}
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Resolver{props: props, logger: logger}
}

// Value resolves key with precedence: project property, then non-empty
// environment variable, else ""
func (r *Resolver) Value(key string) string {
	if v, ok := r.props[key]; ok {
		r.logResolution(key, v, "property")
		return v
	}
	if v := os.Getenv(key); v != "" {
		r.logResolution(key, v, "environment")
		return v
	}
	r.logger.Debug("using default value",
		interfaces.F("key", key),
		interfaces.F("source", "default"),
	)
	return ""
}

// Has reports whether a value exists for key. This check is deliberately
// asymmetric to Value: a project property counts when set to anything,
// including "", while an environment variable counts only when non-empty.
// The signBuild flag relies on exactly this behavior; do not unify it with
// the value lookup.
func (r *Resolver) Has(key string) bool {
	if _, ok := r.props[key]; ok {
		return true
	}
	return os.Getenv(key) != ""
}

func (r *Resolver) logResolution(key, value, source string) {
	if sensitiveKey(key) {
		r.logger.Debug("using "+source+" value",
			interfaces.F("key", key),
			interfaces.F("source", source),
			interfaces.F("sensitive", true),
		)
		return
	}
	r.logger.Debug("using "+source+" value",
		interfaces.F("key", key),
		interfaces.F("value", value),
		interfaces.F("source", source),
	)
}

// sensitiveKey reports whether values for key must stay out of logs
func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "token") ||
		strings.Contains(lower, "password") ||
		strings.Contains(lower, "secret")
}

// Mask returns value unchanged for ordinary keys and a placeholder for
// sensitive ones, for diagnostic output
func Mask(key, value string) string {
	if value == "" {
		return ""
	}
	if sensitiveKey(key) {
		return "********"
	}
	return value
}
