package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSelectDepth(t *testing.T) {
	t.Run("selecting depth from the remaining time", func(t *testing.T) {
		require.Equal(t, 3, SelectDepth(15*time.Second))
		require.Equal(t, 2, SelectDepth(5*time.Second))
		require.Equal(t, 1, SelectDepth(500*time.Millisecond))
	})

	t.Run("thresholds are exclusive on the lower side", func(t *testing.T) {
		require.Equal(t, 3, SelectDepth(10*time.Second+time.Nanosecond))
		require.Equal(t, 2, SelectDepth(10*time.Second))
		require.Equal(t, 2, SelectDepth(3*time.Second+time.Nanosecond))
		require.Equal(t, 1, SelectDepth(3*time.Second))
	})

	t.Run("degrading to depth 1 without time", func(t *testing.T) {
		require.Equal(t, 1, SelectDepth(0))
		require.Equal(t, 1, SelectDepth(-time.Second))
	})

	t.Run("every budget maps to the policy's band", func(t *testing.T) {
		for ms := -1000; ms <= 20000; ms += 250 {
			remaining := time.Duration(ms) * time.Millisecond
			got := SelectDepth(remaining)
			switch {
			case ms > 10000:
				require.Equal(t, 3, got, "remaining=%s", remaining)
			case ms > 3000:
				require.Equal(t, 2, got, "remaining=%s", remaining)
			default:
				require.Equal(t, 1, got, "remaining=%s", remaining)
			}
		}
	})
}

func TestDepthPolicyValidate(t *testing.T) {
	t.Run("default policy is valid", func(t *testing.T) {
		require.NoError(t, DefaultDepthPolicy().Validate())
	})

	t.Run("empty policy is valid and always selects the minimum", func(t *testing.T) {
		require.NoError(t, DepthPolicy{}.Validate())
		require.Equal(t, MinDepth, DepthPolicy{}.Select(time.Hour))
	})

	t.Run("rejecting non-positive depths", func(t *testing.T) {
		policy := DepthPolicy{{Above: time.Second, Depth: 0}}
		require.Error(t, policy.Validate())
	})

	t.Run("rejecting depths above the maximum", func(t *testing.T) {
		policy := DepthPolicy{{Above: time.Second, Depth: MaxDepth + 1}}
		require.Error(t, policy.Validate())
	})

	t.Run("rejecting thresholds out of order", func(t *testing.T) {
		policy := DepthPolicy{
			{Above: 3 * time.Second, Depth: 2},
			{Above: 10 * time.Second, Depth: 3},
		}
		require.Error(t, policy.Validate())
	})
}

func TestDepthPolicyYAML(t *testing.T) {
	t.Run("decoding duration thresholds", func(t *testing.T) {
		var policy DepthPolicy
		err := yaml.Unmarshal([]byte("- above: 10s\n  depth: 3\n- above: 500ms\n  depth: 2\n- depth: 1\n"), &policy)

		require.NoError(t, err)
		require.Equal(t, DepthPolicy{
			{Above: 10 * time.Second, Depth: 3},
			{Above: 500 * time.Millisecond, Depth: 2},
			{Above: 0, Depth: 1},
		}, policy)
	})

	t.Run("rejecting thresholds without a unit", func(t *testing.T) {
		var policy DepthPolicy
		err := yaml.Unmarshal([]byte("- above: 10000\n  depth: 3\n"), &policy)
		require.ErrorContains(t, err, "needs a duration")
	})

	t.Run("accepting a zero threshold", func(t *testing.T) {
		var policy DepthPolicy
		require.NoError(t, yaml.Unmarshal([]byte("- above: 0\n  depth: 2\n"), &policy))
		require.Equal(t, DepthPolicy{{Above: 0, Depth: 2}}, policy)
	})
}
