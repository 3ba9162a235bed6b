package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func chaveFilaMorta(fila string) string { return "dlq:" + fila }

// JobFalho is one entry of a dead-letter list: the untouched payload plus
// what is needed to replay it by hand.
type JobFalho struct {
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhouEm"`
}

func (j JobFalho) codificar(agora time.Time) ([]byte, error) {
	if j.FalhouEm.IsZero() {
		j.FalhouEm = agora.UTC()
	}
	return json.Marshal(j)
}

// Arquivar parks a job that ran out of retries. A failed push is logged and
// the job is lost.
func Arquivar(ctx context.Context, rdb *redis.Client, j JobFalho) {
	data, err := j.codificar(time.Now())
	if err != nil {
		log.Error().Err(err).Str("fila", j.Fila).Msg("dlq: encode")
		return
	}
	chave := chaveFilaMorta(j.Fila)
	if err := rdb.LPush(ctx, chave, data).Err(); err != nil {
		log.Error().Err(err).Str("chave", chave).Msg("dlq: push")
		return
	}
	log.Warn().
		Str("fila", j.Fila).
		Str("tipo", j.Tipo).
		Int("tentativas", j.Tentativas).
		Str("motivo", j.Motivo).
		Msg("job arquivado na fila morta")
}

// TamanhoFilaMorta is reported by /health.
func TamanhoFilaMorta(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, chaveFilaMorta(fila)).Result()
}
