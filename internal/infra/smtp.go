package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"facturapp/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mensaje is one outgoing email with optional file attachments.
type Mensaje struct {
	Para     string
	Asunto   string
	Texto    string
	Adjuntos []string
}

// Mailer sends email through SMTP guarded by a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// Enviar sends msg. The SMTP dial happens inside the breaker.
func (m *Mailer) Enviar(msg Mensaje) error {
	if m.host == "" {
		return ErrMailerNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.Para}
	e.Subject = msg.Asunto
	e.Text = []byte(msg.Texto)
	for _, path := range msg.Adjuntos {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", path, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}
