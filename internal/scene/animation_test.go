package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func animObject() *Object {
	return &Object{
		Clips: []Clip{
			{Name: "Run", Duration: 2, Loop: true},
			{Name: "Open", Duration: 1.5},
		},
	}
}

func TestSetActiveClip(t *testing.T) {
	t.Run("known clip starts playing from zero", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Run"))
		assert.Equal(t, "Run", o.Active)
		assert.True(t, o.Playing)
		assert.Zero(t, o.ClipTime)
	})

	t.Run("unknown clip rejected without side effects", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Run"))
		o.ClipTime = 0.5

		assert.False(t, o.SetActiveClip("Explode"))
		assert.Equal(t, "Run", o.Active)
		assert.Equal(t, 0.5, o.ClipTime)
	})

	t.Run("empty name stops animation", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Run"))
		require.True(t, o.SetActiveClip(""))
		assert.Empty(t, o.Active)
		assert.False(t, o.Playing)
	})
}

func TestAdvance(t *testing.T) {
	t.Run("looping clip wraps", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Run"))

		o.Advance(1.5)
		assert.InDelta(t, 1.5, o.ClipTime, 1e-9)

		o.Advance(1.0)
		assert.InDelta(t, 0.5, o.ClipTime, 1e-9)
		assert.True(t, o.Playing)
	})

	t.Run("one shot clip holds last frame", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Open"))

		o.Advance(2.0)
		assert.InDelta(t, 1.5, o.ClipTime, 1e-9)
		assert.False(t, o.Playing)

		o.Advance(1.0)
		assert.InDelta(t, 1.5, o.ClipTime, 1e-9)
	})

	t.Run("paused clip does not advance", func(t *testing.T) {
		o := animObject()
		require.True(t, o.SetActiveClip("Run"))
		o.SetPlaying(false)

		o.Advance(1.0)
		assert.Zero(t, o.ClipTime)

		o.SetPlaying(true)
		o.Advance(1.0)
		assert.InDelta(t, 1.0, o.ClipTime, 1e-9)
	})

	t.Run("play with no active clip is ignored", func(t *testing.T) {
		o := animObject()
		o.SetPlaying(true)
		assert.False(t, o.Playing)
	})
}
