// Package transport clasifica fallos de red en las categorías que el usuario
// final distingue: tiempo de espera agotado, error de conexión u otro.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/jhoicas/stock-sync/internal/domain"
)

// Classify envuelve un error de http.Client.Do con el centinela de dominio
// correspondiente, de modo que el nivel superior pueda reportarlos distinto
// con errors.Is sin exponer códigos estructurados.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrRequestTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrRequestTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return err
}
