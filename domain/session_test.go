package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_JSON(t *testing.T) {
	t.Run("known fields", func(t *testing.T) {
		in := Session{SessionID: "abc", ContainerName: "c1", LastActive: 1760000000123}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out Session
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("unknown fields survive a rewrite", func(t *testing.T) {
		raw := `{"containerName":"c1","lastActive":1,"userId":"u-7","ports":[3000,3001]}`

		var s Session
		require.NoError(t, json.Unmarshal([]byte(raw), &s))
		assert.Equal(t, "c1", s.ContainerName)
		assert.Equal(t, int64(1), s.LastActive)

		s.LastActive = 2
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, "u-7", fields["userId"])
		assert.Equal(t, []any{float64(3000), float64(3001)}, fields["ports"])
		assert.Equal(t, float64(2), fields["lastActive"])
		assert.Equal(t, "c1", fields["containerName"])
		assert.NotContains(t, fields, "sessionId")
	})

	t.Run("fractional lastActive is truncated", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"containerName":"c1","lastActive":12.9}`), &s))
		assert.Equal(t, int64(12), s.LastActive)
	})

	t.Run("null lastActive reads as zero", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"containerName":"c1","lastActive":null}`), &s))
		assert.Equal(t, int64(0), s.LastActive)
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		var s Session
		require.Error(t, json.Unmarshal([]byte(`invalid json`), &s))
	})

	t.Run("null record returns error", func(t *testing.T) {
		var s Session
		require.Error(t, json.Unmarshal([]byte(`null`), &s))
	})

	t.Run("wrong type returns error", func(t *testing.T) {
		var s Session
		require.Error(t, json.Unmarshal([]byte(`{"containerName":42}`), &s))
	})
}
