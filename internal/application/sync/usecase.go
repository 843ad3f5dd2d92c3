// Package sync orquesta una corrida de sincronización: catálogo remoto →
// reconciliación → lotes → envío, canal por canal.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/reconcile"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// Channel es la configuración completa de un canal de marketplace: sus
// colaboradores de catálogo y envío más los límites de lote de su API.
// Canales casi idénticos (p. ej. las campañas FBS y DBS de Yandex) son dos
// valores de este struct, no dos copias de la lógica.
type Channel struct {
	Name           string
	Catalog        CatalogPageFetcher
	Done           StopCondition
	Stocks         StockSubmitter
	Prices         PriceSubmitter
	StockBatchSize int
	PriceBatchSize int
	WarehouseID    string // vacío para canales que no lo exigen
}

// ChannelResult resume lo enviado a un canal, para observabilidad.
type ChannelResult struct {
	Channel  string
	NotEmpty []entity.StockEntry // subconjunto con stock distinto de cero
	Stocks   []entity.StockEntry // lista completa enviada
}

// SyncUseCase compone paginador → reconciliador → lotes → envío por canal.
type SyncUseCase struct {
	reconciler *reconcile.Service
	log        *logger.Logger
	now        func() time.Time
}

// NewSyncUseCase construye el caso de uso. El reloj se inyecta para que la
// marca de tiempo de las entradas de stock sea determinista en tests.
func NewSyncUseCase(reconciler *reconcile.Service, log *logger.Logger, now func() time.Time) *SyncUseCase {
	if now == nil {
		now = time.Now
	}
	return &SyncUseCase{reconciler: reconciler, log: log, now: now}
}

// Run sincroniza todos los canales contra un mismo feed, en orden y de forma
// independiente: el fallo de un canal se reporta y no revierte ni detiene a
// los demás (no hay transacción entre canales). Devuelve los resúmenes de los
// canales que terminaron y los errores acumulados.
func (uc *SyncUseCase) Run(ctx context.Context, feedSrc FeedSource, channels []Channel) ([]ChannelResult, error) {
	feed, err := feedSrc.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("descargar feed: %w", err)
	}
	uc.log.Info().Int("registros", len(feed)).Msg("feed de remanentes descargado")

	var (
		results []ChannelResult
		errs    []error
	)
	for _, ch := range channels {
		res, err := uc.SyncChannel(ctx, ch, feed)
		if err != nil {
			uc.log.Error().Err(err).Str("canal", ch.Name).Msg("sincronización de canal fallida")
			errs = append(errs, fmt.Errorf("canal %s: %w", ch.Name, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// SyncChannel sincroniza un canal: obtiene el catálogo completo, reconcilia
// contra el feed y envía stock y precios en lotes del tamaño configurado.
// Cualquier fallo de transporte aborta el canal sin reintentos.
func (uc *SyncUseCase) SyncChannel(ctx context.Context, ch Channel, feed []entity.RemnantRecord) (ChannelResult, error) {
	log := uc.log.With().Str("canal", ch.Name).Logger()

	offerIDs, err := NewPager(ch.Catalog, ch.Done).ListOfferIDs(ctx)
	if err != nil {
		return ChannelResult{}, fmt.Errorf("catálogo: %w", err)
	}
	log.Info().Int("skus", len(offerIDs)).Msg("catálogo remoto paginado")

	meta := entity.StockMeta{
		WarehouseID: ch.WarehouseID,
		UpdatedAt:   uc.now().UTC().Truncate(time.Second),
	}
	rec, err := uc.reconciler.Reconcile(feed, offerIDs, meta)
	if err != nil {
		return ChannelResult{}, fmt.Errorf("reconciliar: %w", err)
	}
	for _, sk := range rec.Skipped {
		log.Warn().Str("codigo", sk.Code).Str("motivo", sk.Reason).Msg("registro del feed omitido")
	}

	sent := 0
	for batch := range Chunks(rec.Stocks, ch.StockBatchSize) {
		if err := ch.Stocks.SubmitStocks(ctx, batch); err != nil {
			return ChannelResult{}, fmt.Errorf("enviar lote de stock: %w", err)
		}
		sent++
	}
	log.Info().Int("entradas", len(rec.Stocks)).Int("lotes", sent).Msg("stock actualizado")

	sent = 0
	for batch := range Chunks(rec.Prices, ch.PriceBatchSize) {
		if err := ch.Prices.SubmitPrices(ctx, batch); err != nil {
			return ChannelResult{}, fmt.Errorf("enviar lote de precios: %w", err)
		}
		sent++
	}
	log.Info().Int("entradas", len(rec.Prices)).Int("lotes", sent).Msg("precios actualizados")

	notEmpty := make([]entity.StockEntry, 0, len(rec.Stocks))
	for _, st := range rec.Stocks {
		if st.Count != 0 {
			notEmpty = append(notEmpty, st)
		}
	}
	return ChannelResult{Channel: ch.Name, NotEmpty: notEmpty, Stocks: rec.Stocks}, nil
}
