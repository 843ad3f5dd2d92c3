// Package pricing normaliza los precios de texto libre del feed.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-sync/internal/domain"
)

// Normalize convierte un precio escrito a mano ("5'990.00 руб.") en unidades
// enteras de moneda. Se toma la parte anterior al primer punto decimal y se
// descarta todo lo que no sea dígito; la fracción se elimina, nunca se
// redondea. Un precio sin dígitos es un registro malformado, no un cero.
func Normalize(raw string) (decimal.Decimal, error) {
	whole, _, _ := strings.Cut(raw, ".")

	var b strings.Builder
	for _, r := range whole {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: precio %q sin dígitos", domain.ErrMalformedRecord, raw)
	}

	price, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: precio %q: %v", domain.ErrMalformedRecord, raw, err)
	}
	return price, nil
}
