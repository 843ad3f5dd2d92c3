// Package feed descarga y parsea el feed autoritativo de remanentes: un ZIP
// publicado por el proveedor que contiene una planilla con código, cantidad y
// precio por artículo. Todo se procesa en memoria, sin tocar disco.
package feed

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/infrastructure/transport"
)

// Encabezados de columna esperados en la planilla del proveedor.
const (
	columnCode     = "Код"
	columnQuantity = "Количество"
	columnPrice    = "Цена"
)

// Config parámetros de la descarga del feed.
type Config struct {
	URL string
	// HeaderRow es el índice (desde 0) de la fila de encabezados dentro de la
	// hoja; las filas anteriores son la cabecera decorativa del proveedor.
	HeaderRow int
	Timeout   time.Duration
}

// HTTPSource implementa sync.FeedSource descargando el ZIP del proveedor.
type HTTPSource struct {
	cfg        Config
	httpClient *http.Client
}

// NewHTTPSource construye la fuente de feed.
func NewHTTPSource(cfg Config) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fetch descarga el archivo, extrae la primera planilla del ZIP y la mapea a
// registros de remanentes. Un fallo de red se clasifica igual que los de los
// marketplaces; una planilla sin las columnas esperadas es feed malformado.
func (s *HTTPSource) Fetch(ctx context.Context) ([]entity.RemnantRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: crear request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", transport.Classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed: estado %d al descargar %s", resp.StatusCode, s.cfg.URL)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20)) // max 64 MB
	if err != nil {
		return nil, fmt.Errorf("feed: leer descarga: %w", err)
	}

	sheet, err := extractSpreadsheet(raw)
	if err != nil {
		return nil, err
	}
	return ParseWorkbook(bytes.NewReader(sheet), s.cfg.HeaderRow)
}

// extractSpreadsheet devuelve el contenido de la primera planilla del ZIP.
func extractSpreadsheet(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("feed: abrir ZIP: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xlsx") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("feed: abrir %s: %w", f.Name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("feed: leer %s: %w", f.Name, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: el ZIP no contiene ninguna planilla", domain.ErrMalformedRecord)
}

// ParseWorkbook lee la primera hoja del libro y construye los registros a
// partir de las columnas Код/Количество/Цена, ubicadas por nombre en la fila
// de encabezados. Las filas sin código se descartan (subtotales, vacías).
func ParseWorkbook(r io.Reader, headerRow int) ([]entity.RemnantRecord, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("feed: abrir planilla: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: planilla sin hojas", domain.ErrMalformedRecord)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("feed: leer filas: %w", err)
	}
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("%w: la hoja no llega a la fila de encabezados %d", domain.ErrMalformedRecord, headerRow)
	}

	codeCol, qtyCol, priceCol := -1, -1, -1
	for i, name := range rows[headerRow] {
		switch strings.TrimSpace(name) {
		case columnCode:
			codeCol = i
		case columnQuantity:
			qtyCol = i
		case columnPrice:
			priceCol = i
		}
	}
	if codeCol < 0 || qtyCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("%w: faltan columnas %s/%s/%s en la fila %d",
			domain.ErrMalformedRecord, columnCode, columnQuantity, columnPrice, headerRow)
	}

	records := make([]entity.RemnantRecord, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		rec := entity.RemnantRecord{
			Code:     cell(row, codeCol),
			Quantity: cell(row, qtyCol),
			Price:    cell(row, priceCol),
		}
		if rec.Code == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// cell devuelve la celda i de la fila, tolerando filas cortas (excelize
// recorta las celdas vacías del final).
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
