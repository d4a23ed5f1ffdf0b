package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	type meta struct {
		Nodes    int       `json:"nodes"`
		Channels int       `json:"channels"`
		Times    []float64 `json:"times"`
	}

	in := meta{Nodes: 128, Channels: 3, Times: []float64{1e-8, 0.5}}
	b := MustMarshal(nil, in)

	var out meta
	require.NoError(t, Default.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
