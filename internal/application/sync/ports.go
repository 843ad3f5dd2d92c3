package sync

import (
	"context"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// FeedSource produce los registros del feed autoritativo de remanentes.
// La implementación concreta descarga y parsea la planilla publicada; para
// tests se inyecta un stub en memoria.
type FeedSource interface {
	Fetch(ctx context.Context) ([]entity.RemnantRecord, error)
}

// CatalogPage es una página del catálogo remoto de un canal.
type CatalogPage struct {
	OfferIDs   []string
	NextCursor string
	Total      int // total reportado por la API; 0 si el canal no lo informa
}

// CatalogPageFetcher obtiene una página del catálogo a partir de un cursor
// opaco (vacío para la primera página). Cualquier fallo de transporte aborta
// la paginación completa del canal: nunca se devuelve un catálogo parcial.
type CatalogPageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (CatalogPage, error)
}

// StockSubmitter entrega un lote de actualizaciones de stock al canal.
// El lote nunca supera el tamaño configurado para el canal.
type StockSubmitter interface {
	SubmitStocks(ctx context.Context, batch []entity.StockEntry) error
}

// PriceSubmitter entrega un lote de actualizaciones de precio al canal.
type PriceSubmitter interface {
	SubmitPrices(ctx context.Context, batch []entity.PriceEntry) error
}
