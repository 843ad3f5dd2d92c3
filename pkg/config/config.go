package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	Feed   FeedConfig
	Ozon   OzonConfig
	Market MarketConfig
	Sync   SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// FeedConfig origen del feed autoritativo de remanentes.
type FeedConfig struct {
	URL       string
	HeaderRow int // fila (desde 0) de los encabezados dentro de la planilla
}

// OzonConfig credenciales y límites de lote del canal Ozon Seller.
type OzonConfig struct {
	ClientID   string
	APIKey     string
	StockBatch int
	PriceBatch int
}

// MarketConfig credenciales y límites de lote de Yandex Market. Las campañas
// FBS y DBS comparten token pero tienen identificador y bodega propios.
type MarketConfig struct {
	Token          string
	FBSCampaignID  string
	DBSCampaignID  string
	FBSWarehouseID string
	DBSWarehouseID string
	StockBatch     int
	PriceBatch     int
}

// SyncConfig políticas de la reconciliación y del transporte.
type SyncConfig struct {
	StrictRecords    bool // abortar ante el primer registro malformado
	RejectDuplicates bool // rechazar códigos repetidos en vez de "gana el primero"
	HTTPTimeout      time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, FEED_URL, OZON_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-sync"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Feed: FeedConfig{
			URL:       getString(v, "FEED_URL", "https://timeworld.ru/upload/files/ostatki.zip"),
			HeaderRow: getInt(v, "FEED_HEADER_ROW", 17),
		},
		Ozon: OzonConfig{
			ClientID:   getString(v, "OZON_CLIENT_ID", ""),
			APIKey:     getString(v, "OZON_API_KEY", ""),
			StockBatch: getInt(v, "OZON_STOCK_BATCH", 100),
			PriceBatch: getInt(v, "OZON_PRICE_BATCH", 1000),
		},
		Market: MarketConfig{
			Token:          getString(v, "MARKET_TOKEN", ""),
			FBSCampaignID:  getString(v, "FBS_CAMPAIGN_ID", ""),
			DBSCampaignID:  getString(v, "DBS_CAMPAIGN_ID", ""),
			FBSWarehouseID: getString(v, "WAREHOUSE_FBS_ID", ""),
			DBSWarehouseID: getString(v, "WAREHOUSE_DBS_ID", ""),
			StockBatch:     getInt(v, "MARKET_STOCK_BATCH", 2000),
			PriceBatch:     getInt(v, "MARKET_PRICE_BATCH", 500),
		},
		Sync: SyncConfig{
			StrictRecords:    getBool(v, "SYNC_STRICT_RECORDS", false),
			RejectDuplicates: getBool(v, "SYNC_REJECT_DUPLICATES", false),
			HTTPTimeout:      time.Duration(getInt(v, "HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate comprueba lo que no puede corregirse con un valor por defecto.
func (c *Config) validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("config: FEED_URL es obligatorio")
	}
	if c.Feed.HeaderRow < 0 {
		return fmt.Errorf("config: FEED_HEADER_ROW no puede ser negativo")
	}
	for name, size := range map[string]int{
		"OZON_STOCK_BATCH":   c.Ozon.StockBatch,
		"OZON_PRICE_BATCH":   c.Ozon.PriceBatch,
		"MARKET_STOCK_BATCH": c.Market.StockBatch,
		"MARKET_PRICE_BATCH": c.Market.PriceBatch,
	} {
		if size < 1 {
			return fmt.Errorf("config: %s debe ser al menos 1 (recibido %d)", name, size)
		}
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
