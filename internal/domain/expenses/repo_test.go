package expenses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseAmountIsDecimalString(t *testing.T) {
	var e Expense
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"type":"rent","amount":"1500.75","date":"2024-02-01"}`), &e))
	require.True(t, e.Amount.Equal(decimal.RequireFromString("1500.75")))
	require.Equal(t, TypeRent, e.Type)
	require.Equal(t, 2, int(e.Date.Month()))
}

func TestCreateRejectsBadInput(t *testing.T) {
	r := NewRepo(api.New("http://127.0.0.1:1", time.Second, api.StaticToken("t"), nil))
	ctx := context.Background()

	_, err := r.Create(ctx, Input{Type: "party", Amount: decimal.NewFromInt(1), Date: "2024-01-01", WarehouseID: 1})
	require.Error(t, err)
	_, err = r.Create(ctx, Input{Type: TypeRent, Amount: decimal.Zero, Date: "2024-01-01", WarehouseID: 1})
	require.Error(t, err)
	_, err = r.Create(ctx, Input{Type: TypeRent, Amount: decimal.NewFromInt(5), Date: "01.01.2024", WarehouseID: 1})
	require.Error(t, err)
}

func TestSourceDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "utilities", r.URL.Query().Get("filterStatus"))
			_, _ = io.WriteString(w, `{"status":"success","data":{"expenses":[{"id":4,"type":"utilities","amount":"10"}],"pagination":{"totalPages":1,"total":1}}}`)
		case http.MethodDelete:
			assert.Equal(t, "/expenses/4", r.URL.Path)
			_, _ = io.WriteString(w, `{"status":"success"}`)
		}
	}))
	defer srv.Close()

	src := NewRepo(api.New(srv.URL, time.Second, api.StaticToken("t"), nil)).Source()
	page, err := src.Fetch(context.Background(), listdata.Query{Page: 1, Limit: 10, Filter: string(TypeUtilities)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NoError(t, src.Delete(context.Background(), 4))
}
