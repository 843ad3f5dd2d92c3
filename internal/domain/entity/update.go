package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es una actualización de stock lista para enviar a un canal.
// WarehouseID y UpdatedAt solo aplican a canales cuyo esquema los exige
// (Yandex Market); para Ozon quedan en cero y el cliente los ignora.
type StockEntry struct {
	SKU         string
	Count       int64 // nunca negativo
	WarehouseID string
	UpdatedAt   time.Time
}

// PriceEntry es una actualización de precio. Solo existe para SKUs presentes
// a la vez en el feed y en el catálogo remoto del canal.
type PriceEntry struct {
	SKU   string
	Price decimal.Decimal // unidades enteras de moneda, sin fracción
}

// StockMeta son los metadatos por canal que se estampan en cada StockEntry.
// UpdatedAt se inyecta desde fuera para que la reconciliación sea determinista.
type StockMeta struct {
	WarehouseID string
	UpdatedAt   time.Time
}
