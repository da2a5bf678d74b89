package sites

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Registry loads and indexes marketplace targets. It is populated once
// before any scrape begins and read-only afterwards.
type Registry struct {
	targets map[string]Target
	order   []string
}

// Load builds a registry from the YAML files in dir, one file per
// marketplace. An empty dir falls back to the built-in defaults.
func Load(dir string) (*Registry, error) {
	if dir == "" {
		return fromTargets(Defaults()), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read site config dir: %w", err)
	}

	var targets []Target
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var t Target
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := validate(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		targets = append(targets, t)
		log.Debug().Str("site", t.Key).Str("file", e.Name()).Msg("Loaded site config")
	}

	if len(targets) == 0 {
		log.Warn().Str("dir", dir).Msg("No site configs found, using defaults")
		return fromTargets(Defaults()), nil
	}
	return fromTargets(targets), nil
}

func validate(t Target) error {
	if t.Key == "" {
		return fmt.Errorf("site config missing key")
	}
	if t.SearchURL == "" || !strings.Contains(t.SearchURL, "{query}") {
		return fmt.Errorf("site %q: search_url_pattern must contain {query}", t.Key)
	}
	if t.TrustScore < 0 || t.TrustScore > 1 {
		return fmt.Errorf("site %q: trust_score %v outside [0,1]", t.Key, t.TrustScore)
	}
	switch t.WaitStrategy {
	case WaitDOMReady, WaitNetworkIdle:
	default:
		return fmt.Errorf("site %q: unknown wait_strategy %q", t.Key, t.WaitStrategy)
	}
	return nil
}

func fromTargets(targets []Target) *Registry {
	r := &Registry{targets: make(map[string]Target, len(targets))}
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Key < targets[j].Key })
	for _, t := range targets {
		if _, dup := r.targets[t.Key]; dup {
			log.Warn().Str("site", t.Key).Msg("Duplicate site key, keeping first")
			continue
		}
		r.targets[t.Key] = t
		r.order = append(r.order, t.Key)
	}
	log.Info().Int("sites", len(r.order)).Msg("Site registry loaded")
	return r
}

// Get returns the target for key, if present
func (r *Registry) Get(key string) (Target, bool) {
	t, ok := r.targets[key]
	return t, ok
}

// Enabled returns every enabled target in stable key order
func (r *Registry) Enabled() []Target {
	var out []Target
	for _, k := range r.order {
		if t := r.targets[k]; t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// FilterKeys returns the enabled targets matching keys, preserving registry
// order. Unknown keys are skipped.
func (r *Registry) FilterKeys(keys []string) []Target {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []Target
	for _, k := range r.order {
		if t := r.targets[k]; want[k] && t.Enabled {
			out = append(out, t)
		}
	}
	return out
}
