// Package ads importa el gasto publicitario exportado por las plataformas (CSV).
package ads

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// Codificaciones aceptadas para el archivo.
const (
	EncodingUTF8       = "utf-8"
	EncodingWindows874 = "windows-874" // TIS-620 / exportaciones de Excel en tailandés
)

// ImportOptions opciones de la importación.
type ImportOptions struct {
	Encoding string // "" = utf-8
}

// requiredColumns columnas obligatorias del encabezado.
var requiredColumns = []string{"date", "platform", "campaign", "spend"}

// ImportUseCase lee el CSV y hace upsert por (fecha, plataforma, campaña).
type ImportUseCase struct {
	repo repository.AdSpendRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(repo repository.AdSpendRepository, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{repo: repo, log: log, now: time.Now}
}

// Import procesa el archivo completo. Los errores de una fila se reportan y no abortan la
// importación; un encabezado inválido o un fallo de persistencia sí.
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*dto.ImportResultDTO, error) {
	src, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("el archivo está vacío")
		}
		return nil, domain.NewValidationError("encabezado ilegible: %v", err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResultDTO{Errors: []dto.ImportRowError{}}
	byKey := make(map[string]*entity.AdSpend)
	var order []string
	now := uc.now()

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: line, Message: err.Error()})
			continue
		}
		if blankRecord(record) {
			result.Skipped++
			continue
		}
		row, err := parseRow(record, cols, now)
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: line, Message: err.Error()})
			continue
		}
		key := row.Date.Format("2006-01-02") + "|" + row.Platform + "|" + row.Campaign
		if _, dup := byKey[key]; !dup {
			order = append(order, key)
		} else {
			result.Skipped++
		}
		byKey[key] = row
	}

	rows := make([]*entity.AdSpend, 0, len(order))
	for _, k := range order {
		rows = append(rows, byKey[k])
	}
	if err := uc.repo.Upsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("guardar gasto publicitario: %w", err)
	}
	result.Imported = len(rows)

	uc.log.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("importación de gasto publicitario")
	return result, nil
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingWindows874, "tis-620", "cp874":
		return transform.NewReader(r, charmap.Windows874.NewDecoder()), nil
	default:
		return nil, domain.NewValidationError("codificación no soportada: %q", encoding)
	}
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, domain.NewValidationError("falta la columna %q en el encabezado", c)
		}
	}
	return cols, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(record []string, cols map[string]int, now time.Time) (*entity.AdSpend, error) {
	rawDate := field(record, cols, "date")
	if rawDate == "" {
		return nil, fmt.Errorf("fecha vacía")
	}
	date, ok := sales.ParseDocDate(rawDate, now)
	if !ok {
		return nil, fmt.Errorf("fecha inválida %q", rawDate)
	}
	platform := strings.ToLower(field(record, cols, "platform"))
	if platform == "" {
		return nil, fmt.Errorf("plataforma vacía")
	}
	spend, err := parseAmount(field(record, cols, "spend"))
	if err != nil {
		return nil, err
	}
	impressions, err := parseCount(field(record, cols, "impressions"), "impressions")
	if err != nil {
		return nil, err
	}
	clicks, err := parseCount(field(record, cols, "clicks"), "clicks")
	if err != nil {
		return nil, err
	}
	return &entity.AdSpend{
		ID:          uuid.New().String(),
		Date:        date,
		Platform:    platform,
		Campaign:    field(record, cols, "campaign"),
		Spend:       sales.Round2(spend),
		Impressions: impressions,
		Clicks:      clicks,
		CreatedAt:   now,
	}, nil
}

// parseAmount acepta separadores de miles y el símbolo ฿.
func parseAmount(raw string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "฿", "", " ", "").Replace(raw)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("gasto vacío")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("gasto inválido %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("gasto negativo %q", raw)
	}
	return d, nil
}

func parseCount(raw, name string) (int64, error) {
	clean := strings.ReplaceAll(raw, ",", "")
	if clean == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s inválido %q", name, raw)
	}
	return n, nil
}
