package sync

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-sync/internal/domain"
)

// StopCondition decide si la paginación terminó después de acumular una
// página. Los dos marketplaces soportados señalan el final de forma distinta,
// así que la condición se elige por canal al configurarlo.
type StopCondition func(page CatalogPage, accumulated int) bool

// StopWhenCursorEmpty termina cuando la respuesta no trae cursor siguiente
// (Yandex Market: paging.nextPageToken vacío).
func StopWhenCursorEmpty(page CatalogPage, _ int) bool {
	return page.NextCursor == ""
}

// StopWhenTotalReached termina cuando lo acumulado alcanza el total que
// reporta la API (Ozon: result.total).
func StopWhenTotalReached(page CatalogPage, accumulated int) bool {
	return page.Total <= accumulated
}

// Pager recorre el catálogo remoto de un canal hasta agotarlo y devuelve la
// lista completa de SKUs conocidos, en el orden en que la API los entrega.
type Pager struct {
	fetcher CatalogPageFetcher
	done    StopCondition
}

// NewPager construye el paginador con la condición de término del canal.
func NewPager(fetcher CatalogPageFetcher, done StopCondition) *Pager {
	return &Pager{fetcher: fetcher, done: done}
}

// ListOfferIDs acumula páginas desde el cursor vacío hasta cumplir la
// condición de término. Un fallo de transporte aborta sin resultado parcial.
// Una página vacía que no cumple la condición también aborta: la alternativa
// sería iterar para siempre contra una API que no avanza.
func (p *Pager) ListOfferIDs(ctx context.Context) ([]string, error) {
	var all []string
	cursor := ""
	for {
		page, err := p.fetcher.FetchPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("página de catálogo (cursor %q): %w", cursor, err)
		}
		all = append(all, page.OfferIDs...)
		if p.done(page, len(all)) {
			return all, nil
		}
		if len(page.OfferIDs) == 0 {
			return nil, fmt.Errorf("%w: cursor %q", domain.ErrEmptyCatalog, cursor)
		}
		cursor = page.NextCursor
	}
}
