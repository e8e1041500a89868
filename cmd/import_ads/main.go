// import_ads carga en PostgreSQL el CSV de gasto publicitario exportado por las plataformas.
//
// Uso: go run ./cmd/import_ads <archivo.csv> [utf-8|windows-874]
// Usa la misma configuración que la API (DATABASE_URL / DB_*).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sakura-shop/backoffice/internal/application/ads"
	"github.com/sakura-shop/backoffice/internal/infrastructure/postgres"
	"github.com/sakura-shop/backoffice/pkg/config"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

var errUsage = errors.New("uso: import_ads <archivo.csv> [utf-8|windows-874]")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run hace todo el trabajo; los defer se ejecutan siempre antes de que main salga.
func run(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	csvPath := args[0]
	encoding := ""
	if len(args) > 1 {
		encoding = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import_ads")

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("abrir CSV %s: %w", csvPath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}

	uc := ads.NewImportUseCase(postgres.NewAdSpendRepository(pool), log)
	res, err := uc.Import(ctx, f, ads.ImportOptions{Encoding: encoding})
	if err != nil {
		return fmt.Errorf("importar: %w", err)
	}
	for _, rowErr := range res.Errors {
		log.Warn().Int("row", rowErr.Row).Str("error", rowErr.Message).Msg("fila descartada")
	}
	fmt.Printf("Importadas: %d, omitidas: %d, con error: %d\n", res.Imported, res.Skipped, len(res.Errors))
	return nil
}
