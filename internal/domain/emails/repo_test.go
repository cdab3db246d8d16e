package emails

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

func TestListByUser(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":"success","data":{"emails":[
			{"id":7,"userId":42,"subject":"Счёт за март","status":"sent","sentAt":"2024-03-05T10:00:00Z"},
			{"id":8,"userId":42,"subject":"Напоминание","sentAt":"2024-03-20"}
		]}}`)
	}))
	defer srv.Close()

	r := NewRepo(api.New(srv.URL+"/api", time.Second, api.StaticToken("t"), nil))
	list, err := r.ListByUser(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "/api/emails/user/42", gotPath)
	require.Equal(t, "Bearer t", gotAuth)

	require.Len(t, list, 2)
	require.Equal(t, int64(7), list[0].ID)
	require.Equal(t, "Счёт за март", list[0].Subject)
	require.Equal(t, "sent", list[0].Status)
	require.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), list[0].SentAt.Time)
	require.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), list[1].SentAt.Time)
}

func TestListByUserEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","data":{"emails":[]}}`)
	}))
	defer srv.Close()

	r := NewRepo(api.New(srv.URL, time.Second, api.StaticToken("t"), nil))
	list, err := r.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestListByUserFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"user not found"}`)
	}))
	defer srv.Close()

	r := NewRepo(api.New(srv.URL, time.Second, api.StaticToken("t"), nil))
	_, err := r.ListByUser(context.Background(), 1)
	require.Error(t, err)
}
