// Package yandexmarket implementa los puertos de catálogo y envío contra la
// API de partners de Yandex Market. Un mismo cliente sirve a varias campañas
// (FBS, DBS); cada campaña se materializa con For(campaignID, warehouseID).
package yandexmarket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appsync "github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/transport"
)

const (
	defaultBaseURL = "https://api.partner.market.yandex.ru"
	// pageLimit es el tamaño de página de offer-mapping-entries.
	pageLimit = 200
	// fulfillmentFit es el único tipo de existencia que publicamos.
	fulfillmentFit = "FIT"
)

// Config credenciales y parámetros del cliente de Yandex Market.
type Config struct {
	Token   string // token OAuth de la API de partners
	BaseURL string
	Timeout time.Duration
}

// Client guarda la parte común a todas las campañas.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Campaign liga el cliente a una campaña concreta y su bodega. Implementa
// sync.CatalogPageFetcher, sync.StockSubmitter y sync.PriceSubmitter.
type Campaign struct {
	client      *Client
	campaignID  string
	warehouseID string
}

// NewClient construye el cliente compartido.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// For devuelve la vista del cliente sobre una campaña.
func (c *Client) For(campaignID, warehouseID string) *Campaign {
	return &Campaign{client: c, campaignID: campaignID, warehouseID: warehouseID}
}

// ── Payloads de la API ────────────────────────────────────────────────────────

type offerMappingsResponse struct {
	Result struct {
		OfferMappingEntries []struct {
			Offer struct {
				ShopSKU string `json:"shopSku"`
			} `json:"offer"`
		} `json:"offerMappingEntries"`
		Paging struct {
			NextPageToken string `json:"nextPageToken"`
		} `json:"paging"`
	} `json:"result"`
}

type stockItem struct {
	Count     int64  `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

type stockSKU struct {
	SKU         string      `json:"sku"`
	WarehouseID string      `json:"warehouseId"`
	Items       []stockItem `json:"items"`
}

type priceOffer struct {
	ID    string     `json:"id"`
	Price priceValue `json:"price"`
}

type priceValue struct {
	Value      int64  `json:"value"`
	CurrencyID string `json:"currencyId"`
}

// ── Puertos ───────────────────────────────────────────────────────────────────

// FetchPage lista una página del catálogo de la campaña. El final lo señala
// un nextPageToken vacío, por eso el canal usa StopWhenCursorEmpty.
func (cp *Campaign) FetchPage(ctx context.Context, cursor string) (appsync.CatalogPage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(pageLimit))
	if cursor != "" {
		q.Set("page_token", cursor)
	}
	path := fmt.Sprintf("/campaigns/%s/offer-mapping-entries?%s", url.PathEscape(cp.campaignID), q.Encode())

	var resp offerMappingsResponse
	if err := cp.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return appsync.CatalogPage{}, err
	}
	page := appsync.CatalogPage{
		OfferIDs:   make([]string, 0, len(resp.Result.OfferMappingEntries)),
		NextCursor: resp.Result.Paging.NextPageToken,
	}
	for _, entry := range resp.Result.OfferMappingEntries {
		page.OfferIDs = append(page.OfferIDs, entry.Offer.ShopSKU)
	}
	return page, nil
}

// SubmitStocks publica un lote de existencias de la campaña. Cada entrada
// lleva la bodega y la marca de tiempo que estampó la reconciliación.
func (cp *Campaign) SubmitStocks(ctx context.Context, batch []entity.StockEntry) error {
	skus := make([]stockSKU, 0, len(batch))
	for _, st := range batch {
		skus = append(skus, stockSKU{
			SKU:         st.SKU,
			WarehouseID: st.WarehouseID,
			Items: []stockItem{{
				Count:     st.Count,
				Type:      fulfillmentFit,
				UpdatedAt: st.UpdatedAt.UTC().Format(time.RFC3339),
			}},
		})
	}
	path := fmt.Sprintf("/campaigns/%s/offers/stocks", url.PathEscape(cp.campaignID))
	return cp.client.do(ctx, http.MethodPut, path, map[string]any{"skus": skus}, nil)
}

// SubmitPrices publica un lote de precios de la campaña en rublos enteros.
func (cp *Campaign) SubmitPrices(ctx context.Context, batch []entity.PriceEntry) error {
	offers := make([]priceOffer, 0, len(batch))
	for _, pr := range batch {
		offers = append(offers, priceOffer{
			ID:    pr.SKU,
			Price: priceValue{Value: pr.Price.IntPart(), CurrencyID: "RUR"},
		})
	}
	path := fmt.Sprintf("/campaigns/%s/offer-prices/updates", url.PathEscape(cp.campaignID))
	return cp.client.do(ctx, http.MethodPost, path, map[string]any{"offers": offers}, nil)
}

// do arma la petición con el Bearer token, clasifica los fallos de red y
// decodifica la respuesta en out (si out no es nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("market: serializar payload: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("market: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market %s: %w", path, transport.Classify(err))
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return fmt.Errorf("market %s: leer respuesta: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("market %s: estado %d: %s", path, resp.StatusCode, truncate(rawBody, 256))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("market %s: parsear respuesta: %w", path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
