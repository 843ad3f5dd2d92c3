// Package ozon implementa los puertos de catálogo y envío contra la API
// Ozon Seller. Usa net/http de la stdlib; no requiere librerías de terceros.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appsync "github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/transport"
)

const (
	defaultBaseURL = "https://api-seller.ozon.ru"
	// pageLimit es el tamaño de página del listado de productos.
	pageLimit = 1000
)

// Config credenciales y parámetros del cliente Ozon Seller.
type Config struct {
	ClientID string
	APIKey   string
	BaseURL  string        // vacío = producción
	Timeout  time.Duration // 0 = 60 s
}

// Client implementa sync.CatalogPageFetcher, sync.StockSubmitter y
// sync.PriceSubmitter para Ozon.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient construye el cliente con un timeout de red generoso por defecto:
// la importación masiva de precios puede tardar varios segundos.
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

// ── Payloads de la API ────────────────────────────────────────────────────────

type productListRequest struct {
	Filter productListFilter `json:"filter"`
	LastID string            `json:"last_id"`
	Limit  int               `json:"limit"`
}

type productListFilter struct {
	Visibility string `json:"visibility"`
}

type productListResponse struct {
	Result struct {
		Items []struct {
			OfferID string `json:"offer_id"`
		} `json:"items"`
		Total  int    `json:"total"`
		LastID string `json:"last_id"`
	} `json:"result"`
}

type stockImport struct {
	OfferID string `json:"offer_id"`
	Stock   int64  `json:"stock"`
}

type priceImport struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

// ── Puertos ───────────────────────────────────────────────────────────────────

// FetchPage lista una página del catálogo. Ozon no usa un cursor terminal:
// la paginación acaba cuando lo acumulado alcanza result.total, por eso el
// canal se configura con StopWhenTotalReached.
func (c *Client) FetchPage(ctx context.Context, cursor string) (appsync.CatalogPage, error) {
	req := productListRequest{
		Filter: productListFilter{Visibility: "ALL"},
		LastID: cursor,
		Limit:  pageLimit,
	}
	var resp productListResponse
	if err := c.doPost(ctx, "/v2/product/list", req, &resp); err != nil {
		return appsync.CatalogPage{}, err
	}

	page := appsync.CatalogPage{
		OfferIDs:   make([]string, 0, len(resp.Result.Items)),
		NextCursor: resp.Result.LastID,
		Total:      resp.Result.Total,
	}
	for _, item := range resp.Result.Items {
		page.OfferIDs = append(page.OfferIDs, item.OfferID)
	}
	return page, nil
}

// SubmitStocks importa un lote de existencias. Ozon no lleva bodega ni marca
// de tiempo en este endpoint; solo artículo y cantidad.
func (c *Client) SubmitStocks(ctx context.Context, batch []entity.StockEntry) error {
	stocks := make([]stockImport, 0, len(batch))
	for _, st := range batch {
		stocks = append(stocks, stockImport{OfferID: st.SKU, Stock: st.Count})
	}
	payload := map[string]any{"stocks": stocks}
	return c.doPost(ctx, "/v1/product/import/stocks", payload, nil)
}

// SubmitPrices importa un lote de precios. El precio viaja como string de
// unidades enteras ("5990"), sin promociones automáticas.
func (c *Client) SubmitPrices(ctx context.Context, batch []entity.PriceEntry) error {
	prices := make([]priceImport, 0, len(batch))
	for _, pr := range batch {
		prices = append(prices, priceImport{
			AutoActionEnabled: "UNKNOWN",
			CurrencyCode:      "RUB",
			OfferID:           pr.SKU,
			OldPrice:          "0",
			Price:             pr.Price.String(),
		})
	}
	payload := map[string]any{"prices": prices}
	return c.doPost(ctx, "/v1/product/import/prices", payload, nil)
}

// doPost serializa el body, firma con Client-Id/Api-Key y decodifica la
// respuesta en out (si out no es nil). Los fallos de red se clasifican en los
// centinelas de dominio; un estado no-2xx es un fallo duro del canal.
func (c *Client) doPost(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ozon: serializar payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("ozon: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.cfg.ClientID)
	req.Header.Set("Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ozon %s: %w", path, transport.Classify(err))
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return fmt.Errorf("ozon %s: leer respuesta: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ozon %s: estado %d: %s", path, resp.StatusCode, truncate(rawBody, 256))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("ozon %s: parsear respuesta: %w", path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
