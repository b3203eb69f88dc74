package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/folio-space/core/internal/config"
)

const defaultDialTimeout = 15 * time.Second

// ErrNotConfigured is returned when host or credentials are missing.
var ErrNotConfigured = errors.New("mail: smtp not configured")

// Config holds SMTP settings.
type Config struct {
	Host   string
	Port   int
	Secure bool // implicit TLS
	User   string
	Pass   string
	From   string
}

// ConfigFrom maps the application SMTP section.
func ConfigFrom(cfg config.SMTPConfig) Config {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		Secure: cfg.Secure,
		User:   cfg.User,
		Pass:   cfg.Pass,
		From:   from,
	}
}

// Message is a single email to send.
type Message struct {
	To      string
	Subject string
	HTML    string
	Headers map[string]string
}

// Sender sends emails through one SMTP session per message.
type Sender struct {
	cfg     Config
	timeout time.Duration
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg, timeout: defaultDialTimeout}
}

// Configured reports whether host, user and password are all present.
func (s *Sender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.User != "" && s.cfg.Pass != ""
}

// Validate checks the static configuration without touching the network.
func (s *Sender) Validate() error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if s.cfg.Port < 1 || s.cfg.Port > 65535 {
		return fmt.Errorf("mail: invalid smtp port %d", s.cfg.Port)
	}
	return nil
}

// Verify opens a session, negotiates TLS and authenticates, then quits.
func (s *Sender) Verify(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	client, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

// Send delivers msg to a single recipient.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := s.Validate(); err != nil {
		return err
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	envelopeFrom := s.cfg.From
	if addr, err := mail.ParseAddress(s.cfg.From); err == nil {
		envelopeFrom = addr.Address
	}

	client, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(envelopeFrom); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to.Address); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := w.Write(BuildMessage(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}
	// the message is accepted once DATA closes
	_ = client.Quit()
	return nil
}

func (s *Sender) open(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.timeout}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.Secure {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if !s.cfg.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return nil, fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	return client, nil
}

// BuildMessage renders headers and an HTML body into RFC 5322 bytes.
func BuildMessage(from string, msg Message) []byte {
	var b bytes.Buffer
	writeHeader := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}

	writeHeader("From", from)
	writeHeader("To", msg.To)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")

	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(k, sanitizeHeader(msg.Headers[k]))
	}

	writeHeader("Content-Type", "text/html; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes()
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
