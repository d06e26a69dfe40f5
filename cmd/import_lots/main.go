// import_lots registra en el pool los lotes de un archivo CSV (referencia;cantidad;nota).
//
// Uso: go run ./cmd/import_lots [-latin1] [-dry-run] ruta/lotes.csv
// Cada fila se registra en su propia transacción; una fila fallida no revierte las anteriores.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cafe-ledger-api/pkg/config"
	"github.com/jhoicas/cafe-ledger-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	user := flag.String("user", "import_lots", "usuario que figura en los movimientos")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_lots [-latin1] [-dry-run] ruta/lotes.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_lots"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readLots(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("filas", len(rows)).Msg("archivo leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := inventory.NewLotIntakeUseCase(postgres.NewTxRunner(pool), log.Component("inventory"))

	var failed int
	for _, r := range rows {
		lot, err := uc.RegisterEntry(ctx, inventory.LotEntryInput{
			Reference: r.Reference,
			Quantity:  r.Quantity,
			Note:      r.Note,
			UserID:    *user,
		})
		if err != nil {
			failed++
			log.Error().Err(err).Int("linea", r.Line).Str("referencia", r.Reference).Msg("fila rechazada")
			continue
		}
		log.Debug().Int64("lot_id", lot.ID).Int("linea", r.Line).Msg("lote registrado")
	}
	log.Info().Int("registrados", len(rows)-failed).Int("rechazados", failed).Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}
