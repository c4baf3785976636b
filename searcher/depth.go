package searcher

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	MinDepth = 1
	MaxDepth = 16 // Keeps plain recursion shallow
)

// DepthRule selects Depth when the remaining time is strictly above Above.
type DepthRule struct {
	Above time.Duration `yaml:"above"`
	Depth int           `yaml:"depth"`
}

// UnmarshalYAML requires Above to carry a unit ("10s"), since a bare integer
// would otherwise decode as nanoseconds.
func (r *DepthRule) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Above string `yaml:"above"`
		Depth int    `yaml:"depth"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	rule := DepthRule{Depth: raw.Depth}
	if raw.Above != "" {
		above, err := time.ParseDuration(raw.Above)
		if err != nil {
			return fmt.Errorf("line %d: depth threshold %q needs a duration such as 10s: %w", value.Line, raw.Above, err)
		}
		rule.Above = above
	}
	*r = rule
	return nil
}

// DepthPolicy is checked in order; the first matching rule wins and MinDepth is
// the fallback. The depth is fixed before the search starts.
type DepthPolicy []DepthRule

func DefaultDepthPolicy() DepthPolicy {
	return DepthPolicy{
		{Above: 10 * time.Second, Depth: 3},
		{Above: 3 * time.Second, Depth: 2},
	}
}

// SelectDepth applies the default policy.
func SelectDepth(remaining time.Duration) int {
	return DefaultDepthPolicy().Select(remaining)
}

func (p DepthPolicy) Select(remaining time.Duration) int {
	for _, rule := range p {
		if remaining > rule.Above {
			return rule.Depth
		}
	}
	return MinDepth
}

func (p DepthPolicy) Validate() error {
	for i, rule := range p {
		if rule.Depth < MinDepth || rule.Depth > MaxDepth {
			return fmt.Errorf("depth rule %d: depth %d outside [%d, %d]", i, rule.Depth, MinDepth, MaxDepth)
		}
		if i > 0 && rule.Above >= p[i-1].Above {
			return fmt.Errorf("depth rule %d: threshold %s must be below %s", i, rule.Above, p[i-1].Above)
		}
	}
	return nil
}
