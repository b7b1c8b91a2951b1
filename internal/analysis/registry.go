package analysis

import (
	"sort"

	"github.com/liftlab/formcheck/internal/metrics"
)

// Registry maps exercise identifiers to analyzer configurations. An
// unknown identifier fails fast with UnsupportedExerciseError; there is
// deliberately no default analyzer to fall through to.
type Registry struct {
	configs map[string]Config
}

// NewRegistry returns a registry with the built-in exercises registered
// using the given thresholds.
func NewRegistry(t metrics.Thresholds) *Registry {
	r := &Registry{configs: make(map[string]Config)}
	r.Register(SquatConfig(t))
	r.Register(DeadliftConfig(t))
	return r
}

// Register adds or replaces an exercise configuration.
func (r *Registry) Register(cfg Config) {
	r.configs[cfg.Exercise] = cfg
}

// Lookup returns the configuration for the exercise identifier.
func (r *Registry) Lookup(exercise string) (Config, error) {
	cfg, ok := r.configs[exercise]
	if !ok {
		return Config{}, &UnsupportedExerciseError{Exercise: exercise}
	}
	return cfg, nil
}

// Exercises lists the registered exercise identifiers in sorted order.
func (r *Registry) Exercises() []string {
	out := make([]string, 0, len(r.configs))
	for name := range r.configs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
