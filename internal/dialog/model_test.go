package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadHelpersAfterJSON(t *testing.T) {
	raw, err := json.Marshal(Payload{"wh": "North", "page": 3})
	require.NoError(t, err)
	var p Payload
	require.NoError(t, json.Unmarshal(raw, &p))

	s, ok := GetString(p, "wh")
	require.True(t, ok)
	require.Equal(t, "North", s)

	n, ok := GetInt(p, "page")
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = GetInt(p, "wh")
	require.False(t, ok)
	_, ok = GetString(p, "missing")
	require.False(t, ok)
}

func TestSearchable(t *testing.T) {
	require.True(t, StateCustomerList.Searchable())
	require.False(t, StateUnitList.Searchable())
	require.False(t, StateIdle.Searchable())
}
