package yandexmarket_test

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
	"github.com/jhoicas/stock-sync/internal/infrastructure/yandexmarket"
)

func newTestCampaign(url string) *yandexmarket.Campaign {
	client := yandexmarket.NewClient(yandexmarket.Config{
		Token:   "token-1",
		BaseURL: url,
		Timeout: 2 * time.Second,
	})
	return client.For("777", "WH-1")
}

// TestFetchPage_PaginacionPorCursor simula offer-mapping-entries: el final lo
// marca un nextPageToken vacío.
func TestFetchPage_PaginacionPorCursor(t *testing.T) {
	pages := map[string]struct {
		skus []string
		next string
	}{
		"":   {skus: []string{"A", "B"}, next: "t2"},
		"t2": {skus: []string{"C"}, next: ""},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/campaigns/777/offer-mapping-entries", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "200", r.URL.Query().Get("limit"))

		page, ok := pages[r.URL.Query().Get("page_token")]
		require.True(t, ok, "cursor inesperado %q", r.URL.Query().Get("page_token"))

		entries := make([]map[string]any, 0, len(page.skus))
		for _, sku := range page.skus {
			entries = append(entries, map[string]any{"offer": map[string]string{"shopSku": sku}})
		}
		resp := map[string]any{"result": map[string]any{
			"offerMappingEntries": entries,
			"paging":              map[string]string{"nextPageToken": page.next},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	got, err := appsync.NewPager(newTestCampaign(srv.URL), appsync.StopWhenCursorEmpty).
		ListOfferIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestSubmitStocks_PayloadConBodegaYMarcaDeTiempo(t *testing.T) {
	var body struct {
		SKUs []struct {
			SKU         string `json:"sku"`
			WarehouseID string `json:"warehouseId"`
			Items       []struct {
				Count     int64  `json:"count"`
				Type      string `json:"type"`
				UpdatedAt string `json:"updatedAt"`
			} `json:"items"`
		} `json:"skus"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/campaigns/777/offers/stocks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	updatedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := newTestCampaign(srv.URL).SubmitStocks(context.Background(), []entity.StockEntry{
		{SKU: "A1", Count: 100, WarehouseID: "WH-1", UpdatedAt: updatedAt},
	})
	require.NoError(t, err)

	require.Len(t, body.SKUs, 1)
	assert.Equal(t, "A1", body.SKUs[0].SKU)
	assert.Equal(t, "WH-1", body.SKUs[0].WarehouseID)
	require.Len(t, body.SKUs[0].Items, 1)
	assert.EqualValues(t, 100, body.SKUs[0].Items[0].Count)
	assert.Equal(t, "FIT", body.SKUs[0].Items[0].Type)
	assert.Equal(t, "2024-03-01T12:00:00Z", body.SKUs[0].Items[0].UpdatedAt)
}

func TestSubmitPrices_PayloadEnRublosEnteros(t *testing.T) {
	var body struct {
		Offers []struct {
			ID    string `json:"id"`
			Price struct {
				Value      int64  `json:"value"`
				CurrencyID string `json:"currencyId"`
			} `json:"price"`
		} `json:"offers"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/campaigns/777/offer-prices/updates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	err := newTestCampaign(srv.URL).SubmitPrices(context.Background(), []entity.PriceEntry{
		{SKU: "A1", Price: decimal.NewFromInt(5990)},
	})
	require.NoError(t, err)

	require.Len(t, body.Offers, 1)
	assert.Equal(t, "A1", body.Offers[0].ID)
	assert.EqualValues(t, 5990, body.Offers[0].Price.Value)
	assert.Equal(t, "RUR", body.Offers[0].Price.CurrencyID)
}

func TestDo_EstadoNo2xxEsFalloDuro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestCampaign(srv.URL).SubmitPrices(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
