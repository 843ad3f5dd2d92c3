package ozon_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/ozon"
)

func newTestClient(url string) *ozon.Client {
	return ozon.NewClient(ozon.Config{
		ClientID: "client-1",
		APIKey:   "key-1",
		BaseURL:  url,
		Timeout:  2 * time.Second,
	})
}

// TestFetchPage_PaginacionPorTotal simula el listado de Ozon: el cursor nunca
// queda vacío y el final lo marca result.total contra lo acumulado.
func TestFetchPage_PaginacionPorTotal(t *testing.T) {
	pages := map[string]struct {
		items  []string
		lastID string
	}{
		"":  {items: []string{"A", "B"}, lastID: "B"},
		"B": {items: []string{"C"}, lastID: "C"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/product/list", r.URL.Path)
		assert.Equal(t, "client-1", r.Header.Get("Client-Id"))
		assert.Equal(t, "key-1", r.Header.Get("Api-Key"))

		var req struct {
			Filter struct {
				Visibility string `json:"visibility"`
			} `json:"filter"`
			LastID string `json:"last_id"`
			Limit  int    `json:"limit"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ALL", req.Filter.Visibility)
		assert.Equal(t, 1000, req.Limit)

		page, ok := pages[req.LastID]
		require.True(t, ok, "cursor inesperado %q", req.LastID)

		items := make([]map[string]string, 0, len(page.items))
		for _, id := range page.items {
			items = append(items, map[string]string{"offer_id": id})
		}
		resp := map[string]any{"result": map[string]any{
			"items":   items,
			"total":   3,
			"last_id": page.lastID,
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got, err := appsync.NewPager(client, appsync.StopWhenTotalReached).ListOfferIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestSubmitStocks_Payload(t *testing.T) {
	var body struct {
		Stocks []struct {
			OfferID string `json:"offer_id"`
			Stock   int64  `json:"stock"`
		} `json:"stocks"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/product/import/stocks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitStocks(context.Background(), []entity.StockEntry{
		{SKU: "A1", Count: 100},
		{SKU: "A3", Count: 0},
	})
	require.NoError(t, err)

	require.Len(t, body.Stocks, 2)
	assert.Equal(t, "A1", body.Stocks[0].OfferID)
	assert.EqualValues(t, 100, body.Stocks[0].Stock)
	assert.EqualValues(t, 0, body.Stocks[1].Stock)
}

func TestSubmitPrices_Payload(t *testing.T) {
	var body struct {
		Prices []struct {
			AutoActionEnabled string `json:"auto_action_enabled"`
			CurrencyCode      string `json:"currency_code"`
			OfferID           string `json:"offer_id"`
			OldPrice          string `json:"old_price"`
			Price             string `json:"price"`
		} `json:"prices"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/product/import/prices", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitPrices(context.Background(), []entity.PriceEntry{
		{SKU: "A1", Price: decimal.NewFromInt(5990)},
	})
	require.NoError(t, err)

	require.Len(t, body.Prices, 1)
	assert.Equal(t, "A1", body.Prices[0].OfferID)
	assert.Equal(t, "5990", body.Prices[0].Price, "el precio viaja como string de unidades enteras")
	assert.Equal(t, "UNKNOWN", body.Prices[0].AutoActionEnabled)
	assert.Equal(t, "RUB", body.Prices[0].CurrencyCode)
	assert.Equal(t, "0", body.Prices[0].OldPrice)
}

func TestDoPost_EstadoNo2xxEsFalloDuro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid Api-Key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitStocks(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
