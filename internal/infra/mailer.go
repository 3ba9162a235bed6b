package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
)

// ErrSMTPNaoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNaoConfigurado = errors.New("mailer: SMTP_HOST não configurado")

// Mensagem is one outgoing email. Texto and HTML may both be set.
type Mensagem struct {
	Para    string `json:"para"`
	Assunto string `json:"assunto"`
	Texto   string `json:"texto"`
	HTML    string `json:"html,omitempty"`
}

// Mailer sends mail through the configured SMTP relay behind a Disjuntor.
type Mailer struct {
	host      string
	addr      string
	from      string
	auth      smtp.Auth
	disjuntor *Disjuntor
	send      func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config, d *Disjuntor) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	if d == nil {
		d = NewDisjuntor(DefaultConfigDisjuntor())
	}
	return &Mailer{
		host:      cfg.SMTPHost,
		addr:      fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:      from,
		auth:      auth,
		disjuntor: d,
		send:      func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

func (m *Mailer) Configurado() bool { return m.host != "" }

func (m *Mailer) Disjuntor() *Disjuntor { return m.disjuntor }

func (m *Mailer) Enviar(msg Mensagem) error {
	if !m.Configurado() {
		return ErrSMTPNaoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.Para}
	e.Subject = msg.Assunto
	e.Text = []byte(msg.Texto)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	return m.disjuntor.Executar(func() error {
		if err := m.send(e, m.addr, m.auth); err != nil {
			return fmt.Errorf("mailer: send to %s: %w", msg.Para, err)
		}
		return nil
	})
}
