// Package reconcile fusiona el feed autoritativo de remanentes con el
// universo de SKUs que ya conoce un canal de marketplace.
package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/pricing"
)

// Tokens de cantidad del feed. El proveedor codifica dos estados especiales:
// ">10" significa "hay de sobra" y se publica como 100 unidades; "1" es una
// unidad retenida fuera de venta y se publica como 0, nunca como 1 disponible.
const (
	quantityPlenty   = ">10"
	quantityReserved = "1"
	plentyCount      = 100
)

// DuplicatePolicy decide qué hacer con códigos repetidos en el feed.
type DuplicatePolicy int

const (
	// DuplicateFirstWins conserva el comportamiento histórico: la primera
	// aparición gana y las siguientes se omiten en silencio. Probable bug de
	// calidad de datos en el origen; se mantiene detrás de esta política.
	DuplicateFirstWins DuplicatePolicy = iota
	// DuplicateReject aborta la reconciliación ante el primer código repetido.
	DuplicateReject
)

// Options controla las políticas explícitas de la reconciliación.
type Options struct {
	Duplicates DuplicatePolicy
	// StrictRecords aborta ante el primer registro malformado. Por defecto el
	// registro se omite y queda reportado en Result.Skipped; su SKU se pone a
	// cero en la segunda pasada como cualquier SKU no cubierto por el feed.
	StrictRecords bool
}

// SkippedRecord reporta un registro del feed que no produjo actualizaciones.
type SkippedRecord struct {
	Code   string
	Reason string
}

// Result es la salida de una reconciliación.
//
// Invariantes: el conjunto de SKUs de Stocks es exactamente el catálogo remoto
// recibido (ni uno menos, ni uno inventado); el de Prices es la intersección
// entre feed y catálogo. El orden es determinista: primero los SKUs
// emparejados en orden del feed, después los restantes en orden del catálogo.
type Result struct {
	Stocks  []entity.StockEntry
	Prices  []entity.PriceEntry
	Skipped []SkippedRecord
}

// Service implementa la reconciliación como función pura de sus entradas.
type Service struct {
	opts Options
}

// NewService construye el reconciliador con las políticas indicadas.
func NewService(opts Options) *Service {
	return &Service{opts: opts}
}

// Reconcile empareja el feed contra offerIDs en dos pasadas explícitas:
//
//  1. Por cada registro del feed cuyo código exista en el catálogo remoto se
//     emite un StockEntry con la cantidad normalizada y un PriceEntry con el
//     precio normalizado, marcando el SKU como cubierto.
//  2. Todo SKU remoto que el feed ya no cubre se emite con stock 0 y sin
//     entrada de precio: el marketplace aún lo lista y hay que vaciarlo, pero
//     no re-tarificarlo.
//
// Las entradas no se mutan; meta se estampa en cada StockEntry.
func (s *Service) Reconcile(feed []entity.RemnantRecord, offerIDs []string, meta entity.StockMeta) (Result, error) {
	remote := make(map[string]struct{}, len(offerIDs))
	for _, id := range offerIDs {
		remote[id] = struct{}{}
	}

	res := Result{
		Stocks: make([]entity.StockEntry, 0, len(offerIDs)),
		Prices: make([]entity.PriceEntry, 0, len(feed)),
	}
	matched := make(map[string]struct{}, len(feed))

	for _, rec := range feed {
		code := strings.TrimSpace(rec.Code)
		if _, known := remote[code]; !known {
			continue // el canal no lista este artículo
		}
		if _, dup := matched[code]; dup {
			if s.opts.Duplicates == DuplicateReject {
				return Result{}, fmt.Errorf("%w: %q", domain.ErrDuplicateCode, code)
			}
			res.Skipped = append(res.Skipped, SkippedRecord{
				Code:   code,
				Reason: "código duplicado en el feed; gana la primera aparición",
			})
			continue
		}

		count, err := parseQuantity(rec.Quantity)
		var price decimal.Decimal
		if err == nil {
			price, err = pricing.Normalize(rec.Price)
		}
		if err != nil {
			if s.opts.StrictRecords {
				return Result{}, fmt.Errorf("registro %q: %w", code, err)
			}
			res.Skipped = append(res.Skipped, SkippedRecord{Code: code, Reason: err.Error()})
			continue
		}

		matched[code] = struct{}{}
		res.Stocks = append(res.Stocks, entity.StockEntry{
			SKU:         code,
			Count:       count,
			WarehouseID: meta.WarehouseID,
			UpdatedAt:   meta.UpdatedAt,
		})
		res.Prices = append(res.Prices, entity.PriceEntry{SKU: code, Price: price})
	}

	// Segunda pasada: diferencia de conjuntos en el orden original del catálogo.
	for _, id := range offerIDs {
		if _, ok := matched[id]; ok {
			continue
		}
		matched[id] = struct{}{} // un catálogo con ids repetidos no duplica entradas
		res.Stocks = append(res.Stocks, entity.StockEntry{
			SKU:         id,
			Count:       0,
			WarehouseID: meta.WarehouseID,
			UpdatedAt:   meta.UpdatedAt,
		})
	}
	return res, nil
}

// parseQuantity aplica la regla de umbrales del feed. Cualquier otra cosa que
// no sea un entero no negativo es un registro malformado.
func parseQuantity(raw string) (int64, error) {
	switch q := strings.TrimSpace(raw); q {
	case quantityPlenty:
		return plentyCount, nil
	case quantityReserved:
		return 0, nil
	default:
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cantidad %q", domain.ErrMalformedRecord, raw)
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: cantidad negativa %q", domain.ErrMalformedRecord, raw)
		}
		return n, nil
	}
}
