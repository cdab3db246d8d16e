package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", time.Second, StaticToken("secret"), nil)
}

func TestGetSendsBearerAndDecodesData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "/api/customers/7", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":7,"name":"Anna"}}`)
	})

	var got item
	err := c.Get(context.Background(), "/customers/7", url.Values{"page": {"2"}}, &got)
	require.NoError(t, err)
	require.Equal(t, item{ID: 7, Name: "Anna"}, got)
}

func TestNonSuccessEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"nope"}`)
	})

	err := c.Get(context.Background(), "customers", nil, &item{})
	require.ErrorIs(t, err, ErrNotSuccess)
	require.Contains(t, err.Error(), "nope")
}

func TestHTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"customer not found"}`)
	})

	err := c.Delete(context.Background(), "customers/1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "customer not found", apiErr.Message)
	require.True(t, IsNotFound(err))
}

func TestDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Delete(context.Background(), "expenses/3"))
}

func TestPostEncodesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in item
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 42
		out, _ := json.Marshal(Envelope{Status: StatusSuccess, Data: mustJSON(in)})
		_, _ = w.Write(out)
	})

	var got item
	require.NoError(t, c.Post(context.Background(), "customers", item{Name: "Boris"}, &got))
	require.Equal(t, int64(42), got.ID)
	require.Equal(t, "Boris", got.Name)
}

func TestMissingToken(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, StaticToken(""), nil)
	err := c.Get(context.Background(), "customers", nil, nil)
	require.ErrorIs(t, err, ErrNoToken)
}

func TestWithTokensKeepsBaseURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer chat-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"status":"success","data":{}}`)
	})
	per := c.WithTokens(TokenFunc(func(context.Context) (string, error) { return "chat-token", nil }))
	require.Equal(t, c.BaseURL(), per.BaseURL())
	require.NoError(t, per.Get(context.Background(), "warehouses", nil, nil))
}

func TestDecodeList(t *testing.T) {
	raw := json.RawMessage(`{"customers":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"pagination":{"totalPages":3,"total":25}}`)
	page, err := DecodeList[item](raw, "customers")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 25, page.Total)

	empty, err := DecodeList[item](json.RawMessage(`{"customers":null}`), "customers")
	require.NoError(t, err)
	require.Empty(t, empty.Items)
	require.NotNil(t, empty.Items)
	require.Equal(t, 1, empty.TotalPages)
}

func TestEndpointLabel(t *testing.T) {
	require.Equal(t, "customers", endpointLabel("/customers/12"))
	require.Equal(t, "reports", endpointLabel("reports/revenue"))
	require.Equal(t, "root", endpointLabel("/"))
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
