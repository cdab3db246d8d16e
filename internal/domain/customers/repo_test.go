package customers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, h http.HandlerFunc) *Repo {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRepo(api.New(srv.URL, time.Second, api.StaticToken("t"), nil))
}

func TestSourceFetchesCustomers(t *testing.T) {
	r := newRepo(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/customers", req.URL.Path)
		assert.Equal(t, "ann", req.URL.Query().Get("search"))
		assert.Equal(t, "0", req.URL.Query().Get("filterStatus"))
		_, _ = io.WriteString(w, `{"status":"success","data":{
			"customers":[{"id":1,"firstName":"Ann","lastName":"Lee","deleted":0,"createdAt":"2024-01-02T03:04:05Z"}],
			"pagination":{"totalPages":1,"total":1}}}`)
	})

	page, err := r.Source().Fetch(context.Background(), listdata.Query{Page: 1, Limit: 10, Search: "ann", Filter: "0"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Ann Lee", page.Items[0].FullName())
	require.True(t, page.Items[0].Active())
	require.Equal(t, 2024, page.Items[0].CreatedAt.Year())
}

func TestCreateValidates(t *testing.T) {
	var called atomic.Bool
	r := newRepo(t, func(w http.ResponseWriter, req *http.Request) {
		called.Store(true)
		var in Input
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		assert.Equal(t, "Ann", in.FirstName)
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":5,"firstName":"Ann","lastName":"Lee","phone":"+100200"}}`)
	})

	_, err := r.Create(context.Background(), Input{FirstName: "Ann"})
	require.Error(t, err)
	require.False(t, called.Load())

	c, err := r.Create(context.Background(), Input{FirstName: "  Ann ", LastName: "Lee", Phone: "+100200"})
	require.NoError(t, err)
	require.Equal(t, int64(5), c.ID)
	require.True(t, called.Load())
}

func TestSetActiveSendsDeletedFlag(t *testing.T) {
	r := newRepo(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPatch, req.Method)
		var body map[string]int
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, Inactive, body["deleted"])
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":9,"deleted":1}}`)
	})
	c, err := r.SetActive(context.Background(), 9, false)
	require.NoError(t, err)
	require.False(t, c.Active())
}

func TestGetByIDNotFound(t *testing.T) {
	r := newRepo(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"not found"}`)
	})
	c, err := r.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, c)
}
