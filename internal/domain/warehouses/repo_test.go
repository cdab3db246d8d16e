package warehouses

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/stretchr/testify/require"
)

func TestListSortsByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","data":{"warehouses":[{"id":2,"name":"South"},{"id":1,"name":"North"}]}}`)
	}))
	defer srv.Close()

	r := NewRepo(api.New(srv.URL, time.Second, api.StaticToken("t"), nil))
	ws, err := r.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "North", ws[0].Name)

	names, err := r.NameByID(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "North", 2: "South"}, names)
}
