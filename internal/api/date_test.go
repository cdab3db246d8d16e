package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateFormats(t *testing.T) {
	var v struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-05-01T10:30:00Z","b":"2024-05-02","c":null}`), &v)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), v.A.Time)
	require.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), v.B.Time)
	require.True(t, v.C.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"a":"01/05/2024"}`), &v))
}
