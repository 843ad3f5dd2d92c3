package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"

	appsync "github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/reconcile"
	"github.com/jhoicas/stock-sync/internal/infrastructure/feed"
	"github.com/jhoicas/stock-sync/internal/infrastructure/ozon"
	"github.com/jhoicas/stock-sync/internal/infrastructure/yandexmarket"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("run_id", uuid.New().String()).
		Msg("iniciando sincronización")

	opts := reconcile.Options{StrictRecords: cfg.Sync.StrictRecords}
	if cfg.Sync.RejectDuplicates {
		opts.Duplicates = reconcile.DuplicateReject
	}
	uc := appsync.NewSyncUseCase(reconcile.NewService(opts), log, nil)

	feedSrc := feed.NewHTTPSource(feed.Config{
		URL:       cfg.Feed.URL,
		HeaderRow: cfg.Feed.HeaderRow,
		Timeout:   cfg.Sync.HTTPTimeout,
	})

	channels := buildChannels(cfg, log)
	if len(channels) == 0 {
		log.Fatal().Msg("ningún canal configurado: faltan credenciales de Ozon y de Yandex Market")
	}

	results, err := uc.Run(context.Background(), feedSrc, channels)
	for _, res := range results {
		log.Info().
			Str("canal", res.Channel).
			Int("skus", len(res.Stocks)).
			Int("con_stock", len(res.NotEmpty)).
			Msg("canal sincronizado")
	}
	if err != nil {
		// Distinción legible para el operador; sin códigos estructurados.
		switch {
		case errors.Is(err, domain.ErrRequestTimeout):
			log.Error().Err(err).Msg("tiempo de espera agotado hablando con el marketplace")
		case errors.Is(err, domain.ErrConnection):
			log.Error().Err(err).Msg("error de conexión con el marketplace")
		default:
			log.Error().Err(err).Msg("sincronización terminada con errores")
		}
		os.Exit(1)
	}
	log.Info().Msg("sincronización completa")
}

// buildChannels arma los canales con credenciales presentes. Las dos campañas
// de Yandex Market comparten cliente; Ozon usa el suyo. El orden es estable:
// primero Ozon, después FBS y DBS.
func buildChannels(cfg *config.Config, log *logger.Logger) []appsync.Channel {
	var channels []appsync.Channel

	if cfg.Ozon.ClientID != "" && cfg.Ozon.APIKey != "" {
		oz := ozon.NewClient(ozon.Config{
			ClientID: cfg.Ozon.ClientID,
			APIKey:   cfg.Ozon.APIKey,
			Timeout:  cfg.Sync.HTTPTimeout,
		})
		channels = append(channels, appsync.Channel{
			Name:           "ozon",
			Catalog:        oz,
			Done:           appsync.StopWhenTotalReached,
			Stocks:         oz,
			Prices:         oz,
			StockBatchSize: cfg.Ozon.StockBatch,
			PriceBatchSize: cfg.Ozon.PriceBatch,
		})
	} else {
		log.Warn().Msg("canal ozon omitido: sin OZON_CLIENT_ID/OZON_API_KEY")
	}

	if cfg.Market.Token == "" {
		log.Warn().Msg("canales de yandex market omitidos: sin MARKET_TOKEN")
		return channels
	}
	ym := yandexmarket.NewClient(yandexmarket.Config{
		Token:   cfg.Market.Token,
		Timeout: cfg.Sync.HTTPTimeout,
	})
	for _, campaign := range []struct {
		name, id, warehouse string
	}{
		{"market-fbs", cfg.Market.FBSCampaignID, cfg.Market.FBSWarehouseID},
		{"market-dbs", cfg.Market.DBSCampaignID, cfg.Market.DBSWarehouseID},
	} {
		if campaign.id == "" {
			log.Warn().Str("canal", campaign.name).Msg("campaña omitida: sin identificador")
			continue
		}
		cp := ym.For(campaign.id, campaign.warehouse)
		channels = append(channels, appsync.Channel{
			Name:           campaign.name,
			Catalog:        cp,
			Done:           appsync.StopWhenCursorEmpty,
			Stocks:         cp,
			Prices:         cp,
			StockBatchSize: cfg.Market.StockBatch,
			PriceBatchSize: cfg.Market.PriceBatch,
			WarehouseID:    campaign.warehouse,
		})
	}
	return channels
}
