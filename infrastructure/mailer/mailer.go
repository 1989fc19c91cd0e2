// Package mailer sends the account emails (verification and password reset)
// over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"

	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" default:"465"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM" default:"Marketplace <no-reply@marketplace.local>"`
}

// Message is a rendered HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type Mailer struct {
	log       *logger.Logger
	transport Transport
}

func New(log *logger.Logger, transport Transport) *Mailer {
	return &Mailer{log: log, transport: transport}
}

// NewFromEnv uses SMTP when SMTP_HOST is set and a logging transport
// otherwise, so local setups can read links from the log.
func NewFromEnv(log *logger.Logger, prefix string) (*Mailer, error) {
	var cfg Config
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing mailer config: %w", err)
	}
	if cfg.Host == "" {
		return New(log, LogTransport{log: log}), nil
	}
	return New(log, &SMTPTransport{cfg: cfg}), nil
}

var (
	verifyTmpl = template.Must(template.New("verify").Parse(`
<h2>Verifikasi Email Anda</h2>
<p>Klik tombol di bawah untuk verifikasi:</p>
<a href="{{.}}" style="background:#007bff;color:white;padding:10px 20px;text-decoration:none;border-radius:5px;">Verifikasi Email</a>
<p>Link berlaku 24 jam.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(`
<h2>Reset Password</h2>
<p>Klik tombol di bawah untuk reset password:</p>
<a href="{{.}}" style="background:#dc3545;color:white;padding:10px 20px;text-decoration:none;border-radius:5px;">Reset Password</a>
<p>Link berlaku 1 jam.</p>`))
)

func (m *Mailer) SendVerification(ctx context.Context, to, link string) error {
	return m.send(ctx, to, "Verifikasi Email - Marketplace", verifyTmpl, link)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	return m.send(ctx, to, "Reset Password - Marketplace", resetTmpl, link)
}

func (m *Mailer) send(ctx context.Context, to, subject string, tmpl *template.Template, link string) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, link); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	if err := m.transport.Send(ctx, Message{To: to, Subject: subject, HTML: body.String()}); err != nil {
		return fmt.Errorf("send %s mail: %w", tmpl.Name(), err)
	}
	m.log.InfoContext(ctx, "mail sent", "template", tmpl.Name(), "to", to)
	return nil
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	log *logger.Logger
}

func (t LogTransport) Send(ctx context.Context, msg Message) error {
	t.log.InfoContext(ctx, "mail transport disabled, message logged", "to", msg.To, "subject", msg.Subject, "body", msg.HTML)
	return nil
}

// SMTPTransport speaks implicit TLS on port 465 and STARTTLS elsewhere.
type SMTPTransport struct {
	cfg Config
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	raw := buildMessage(t.cfg.From, msg)

	var auth smtp.Auth
	if t.cfg.User != "" {
		auth = smtp.PlainAuth("", t.cfg.User, t.cfg.Pass, t.cfg.Host)
	}
	from := envelopeFrom(t.cfg.From)

	if t.cfg.Port != 465 {
		return smtp.SendMail(addr, auth, from, []string{msg.To}, raw)
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: t.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
