package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/metrics"
)

const maxTentativasEmail = 3

// Enviador is the subset of infra.Mailer the worker needs.
type Enviador interface {
	Enviar(msg infra.Mensagem) error
}

// EmailWorker delivers queued mail, retrying with backoff and parking
// exhausted jobs in the DLQ.
type EmailWorker struct {
	mailer  Enviador
	rdb     *redis.Client // nil: no DLQ
	backoff time.Duration
}

func NewEmailWorker(mailer Enviador, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb, backoff: time.Second}
}

// Process decodes one QueueEmail payload and delivers it.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var msg infra.Mensagem
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		metrics.EmailJobs.WithLabelValues("falha").Inc()
		return
	}
	if msg.Para == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return
	}
	if err := w.Entregar(ctx, msg); err != nil && w.rdb != nil {
		Arquivar(ctx, w.rdb, JobFalho{
			Fila:       QueueEmail,
			Tipo:       JobEmail,
			Payload:    raw,
			Motivo:     err.Error(),
			Tentativas: maxTentativasEmail,
		})
		metrics.EmailJobs.WithLabelValues("dlq").Inc()
	}
}

// Entregar sends msg with retries. SMTP not being configured is not retried.
func (w *EmailWorker) Entregar(ctx context.Context, msg infra.Mensagem) error {
	err := withRetry(ctx, maxTentativasEmail, w.backoff, func(int) error {
		err := w.mailer.Enviar(msg)
		if errors.Is(err, infra.ErrSMTPNaoConfigurado) {
			return permanente{err}
		}
		return err
	})
	if err != nil {
		metrics.EmailJobs.WithLabelValues("falha").Inc()
		log.Error().Err(err).Str("para", msg.Para).Msg("email_worker: failed to send email")
		return err
	}
	metrics.EmailJobs.WithLabelValues("enviado").Inc()
	log.Info().Str("para", msg.Para).Str("assunto", msg.Assunto).Msg("email_worker: email sent")
	return nil
}

type permanente struct{ error }

func (p permanente) Unwrap() error { return p.error }

// withRetry calls fn up to maxAttempts times with exponential backoff
// (base, 2*base, ...). A permanente error stops it early.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base << uint(i-1)):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		var p permanente
		if errors.As(err, &p) {
			return p.error
		}
	}
	return lastErr
}

// EnvioDireto implements service.Notificador without a queue: used when
// Redis is not configured. Delivery runs in the background so the request
// does not wait on SMTP.
type EnvioDireto struct {
	worker *EmailWorker
}

func NewEnvioDireto(w *EmailWorker) *EnvioDireto {
	return &EnvioDireto{worker: w}
}

func (e *EnvioDireto) EnviarRecuperacaoSenha(ctx context.Context, nome, email, link string) error {
	msg := MensagemRecuperacao(nome, email, link)
	go func() {
		_ = e.worker.Entregar(context.WithoutCancel(ctx), msg)
	}()
	return nil
}

// MensagemRecuperacao builds the password reset email.
func MensagemRecuperacao(nome, email, link string) infra.Mensagem {
	texto := fmt.Sprintf("Olá, %s!\n\nRecebemos um pedido para redefinir sua senha no Estoque Fácil.\n"+
		"Acesse o link abaixo para escolher uma nova senha:\n\n%s\n\n"+
		"Se você não fez este pedido, ignore este email.\n", nome, link)
	htmlBody := fmt.Sprintf(`<p>Olá, %s!</p>
<p>Recebemos um pedido para redefinir sua senha no Estoque Fácil.</p>
<p><a href="%s">Redefinir senha</a></p>
<p>Se você não fez este pedido, ignore este email.</p>`, html.EscapeString(nome), html.EscapeString(link))
	return infra.Mensagem{
		Para:    email,
		Assunto: "Estoque Fácil - Redefinição de senha",
		Texto:   texto,
		HTML:    htmlBody,
	}
}
