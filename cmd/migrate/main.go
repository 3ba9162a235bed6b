// migrate applies or reverts the embedded schema migrations.
//
//	go run ./cmd/migrate            # up
//	go run ./cmd/migrate -down 1    # revert one step
//	go run ./cmd/migrate -down 0    # revert everything
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	down := flag.Int("down", -1, "revert N migrations (0 = all); omitted applies pending ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if *down >= 0 {
		if err := infra.RollbackMigrations(db, *down); err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Int("steps", *down).Msg("migrations reverted")
		return
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
