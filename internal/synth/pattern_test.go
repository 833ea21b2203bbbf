package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePattern(t *testing.T) {
	for _, p := range Patterns() {
		got, err := ParsePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePattern("weekends")
	assert.Error(t, err)
}

func TestPatternYAML(t *testing.T) {
	var v struct {
		Pattern Pattern `yaml:"pattern"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("pattern: 24x7\n"), &v))
	assert.Equal(t, AlwaysOn, v.Pattern)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "pattern: 24x7\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("pattern: sometimes\n"), &v))
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "seasonal", Seasonal.String())
	assert.Equal(t, "Pattern(42)", Pattern(42).String())
	assert.False(t, Pattern(42).Valid())
}
