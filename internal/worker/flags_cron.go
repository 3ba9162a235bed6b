package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
)

// Reconciliador re-derives every product's stock flags from the estoques rows.
type Reconciliador interface {
	RecalcularFlagsGlobal(ctx context.Context) (*dto.FlagsGlobalResultado, error)
}

// StartFlagsCron runs a global flag reconciliation every intervalo until ctx
// is cancelled. A non-positive intervalo disables it.
func StartFlagsCron(ctx context.Context, r Reconciliador, intervalo time.Duration) {
	if intervalo <= 0 {
		log.Info().Msg("flags_cron: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(intervalo)
		defer ticker.Stop()
		log.Info().Dur("intervalo", intervalo).Msg("flags_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("flags_cron: shutting down")
				return
			case <-ticker.C:
				reconciliar(ctx, r)
			}
		}
	}()
}

func reconciliar(ctx context.Context, r Reconciliador) {
	if _, err := r.RecalcularFlagsGlobal(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("flags_cron: reconciliation failed")
	}
}
