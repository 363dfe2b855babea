package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
models:
  - id: rack-a
    name: Rack A
    category: storage
    url: /assets/rack-a.glb
    footprint: { width: 2.4, height: 3.0, depth: 0.9 }
  - id: belt
    name: Belt
    url: /assets/belt.glb
    footprint:
      width: 6
      height: 1.1
      depth: 0.8
    clips:
      - { name: Run, duration: 2, loop: true }
  - id: bollard
    name: Bollard
    url: /assets/bollard.glb
    footprint: { width: 0.3, height: 1.0, depth: 0.3 }
    pinned: true
`

func TestLoadYAML(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.Len(t, c.Models, 3)

	belt, ok := c.Get("belt")
	require.True(t, ok)
	assert.Equal(t, "Belt", belt.Name)
	assert.InDelta(t, 6, belt.Footprint.Width, 1e-9)
	require.Len(t, belt.Clips, 1)
	assert.True(t, belt.Clips[0].Loop)

	bollard, ok := c.Get("bollard")
	require.True(t, ok)
	assert.True(t, bollard.Pinned)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLoadJSON(t *testing.T) {
	payload := `{
		"models": [
			{
				"id": "rack-a",
				"name": "Rack A",
				"url": "/assets/rack-a.glb",
				"footprint": {"width": 2.4, "height": 3.0, "depth": 0.9}
			}
		]
	}`
	c, err := LoadJSON(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Len(t, c.Models, 1)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "models:\n  - name: X\n    footprint: { width: 1, height: 1, depth: 1 }\n",
			want: "missing id",
		},
		{
			name: "duplicate id",
			yaml: "models:\n  - { id: a, name: X, footprint: { width: 1, height: 1, depth: 1 } }\n  - { id: a, name: Y, footprint: { width: 1, height: 1, depth: 1 } }\n",
			want: "duplicate id",
		},
		{
			name: "missing name",
			yaml: "models:\n  - { id: a, footprint: { width: 1, height: 1, depth: 1 } }\n",
			want: "missing name",
		},
		{
			name: "zero footprint",
			yaml: "models:\n  - { id: a, name: X, footprint: { width: 0, height: 1, depth: 1 } }\n",
			want: "footprint",
		},
		{
			name: "clip without duration",
			yaml: "models:\n  - { id: a, name: X, footprint: { width: 1, height: 1, depth: 1 }, clips: [{ name: Run }] }\n",
			want: "positive duration",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.NotEmpty(t, c.Models)

	// The conveyor ships with its running animation.
	belt, ok := c.Get("belt-conveyor")
	require.True(t, ok)
	assert.NotEmpty(t, belt.Clips)
}
