package subscriber

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	netmail "net/mail"
	"net/url"
	"strings"

	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/mail"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const FormatMarkdown = "markdown"

// Mailer is the part of mail.Sender the broadcaster needs.
type Mailer interface {
	Configured() bool
	Validate() error
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg mail.Message) error
}

type BroadcastInput struct {
	Subject   string
	Message   string
	SendToAll bool
	Format    string
}

type DeliveryError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type DeliveryResults struct {
	Sent   int             `json:"sent"`
	Failed int             `json:"failed"`
	Errors []DeliveryError `json:"errors"`
}

// BroadcastResult is either a dry run (Emails set) or a delivery report (Results set).
type BroadcastResult struct {
	Message    string           `json:"message"`
	Recipients int              `json:"recipients,omitempty"`
	Emails     []string         `json:"emails,omitempty"`
	Results    *DeliveryResults `json:"results,omitempty"`
}

func (r *BroadcastResult) DryRun() bool { return r.Results == nil }

type BroadcasterOptions struct {
	ClientURL  string
	SkipVerify bool
}

type Broadcaster struct {
	repo     Repository
	mailer   Mailer
	opts     BroadcasterOptions
	markdown goldmark.Markdown
	logger   *zap.Logger
}

func NewBroadcaster(repo Repository, mailer Mailer, opts BroadcasterOptions, logger *zap.Logger) *Broadcaster {
	opts.ClientURL = strings.TrimRight(opts.ClientURL, "/")
	return &Broadcaster{
		repo:     repo,
		mailer:   mailer,
		opts:     opts,
		markdown: goldmark.New(),
		logger:   logger,
	}
}

// Broadcast mails the message to every subscribed record, or to every record
// when SendToAll is set. Per-recipient failures are collected, not returned.
func (b *Broadcaster) Broadcast(ctx context.Context, in BroadcastInput) (*BroadcastResult, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" || strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validation("Subject and message are required")
	}

	f := ListFilter{}
	if !in.SendToAll {
		subscribed := true
		f.Subscribed = &subscribed
	}
	recipients, err := b.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, apperr.Validation("No subscribers found to send message to")
	}

	emails := make([]string, len(recipients))
	for i, r := range recipients {
		emails[i] = r.Email
	}

	if !b.mailer.Configured() {
		b.logger.Info("email not configured, broadcast not sent",
			zap.String("subject", subject),
			zap.Strings("recipients", emails),
		)
		return &BroadcastResult{
			Message:    "Email service not configured. Check server logs for email details.",
			Recipients: len(emails),
			Emails:     emails,
		}, nil
	}
	if err := b.mailer.Validate(); err != nil {
		return nil, apperr.Upstream("Email service configuration error", err)
	}
	if err := b.mailer.Verify(ctx); err != nil {
		if !b.opts.SkipVerify {
			return nil, apperr.Upstream("Email service verification failed", err)
		}
		b.logger.Warn("email transport verification failed, sending anyway", zap.Error(err))
	}

	body, err := b.renderBody(in.Message, in.Format)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("render broadcast: %w", err))
	}

	results := &DeliveryResults{Errors: []DeliveryError{}}
	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			results.Failed++
			results.Errors = append(results.Errors, DeliveryError{Email: email, Error: err.Error()})
			continue
		}
		if err := b.sendOne(ctx, subject, body, email); err != nil {
			results.Failed++
			results.Errors = append(results.Errors, DeliveryError{Email: email, Error: err.Error()})
			b.logger.Warn("broadcast delivery failed", zap.String("email", email), zap.Error(err))
			continue
		}
		results.Sent++
	}

	b.logger.Info("broadcast completed",
		zap.String("subject", subject),
		zap.Int("sent", results.Sent),
		zap.Int("failed", results.Failed),
	)
	return &BroadcastResult{
		Message: fmt.Sprintf("Broadcast completed. %d sent, %d failed.", results.Sent, results.Failed),
		Results: results,
	}, nil
}

func (b *Broadcaster) sendOne(ctx context.Context, subject string, body template.HTML, email string) error {
	if _, err := netmail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	unsubscribe := b.UnsubscribeURL(email)
	page, err := mail.RenderBroadcast(mail.BroadcastData{
		Subject:        subject,
		Body:           body,
		UnsubscribeURL: unsubscribe,
	})
	if err != nil {
		return err
	}
	return b.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: subject,
		HTML:    page,
		Headers: map[string]string{"List-Unsubscribe": "<" + unsubscribe + ">"},
	})
}

// UnsubscribeURL links to the public unsubscribe page for email.
func (b *Broadcaster) UnsubscribeURL(email string) string {
	return b.opts.ClientURL + "/unsubscribe?email=" + url.QueryEscape(email)
}

func (b *Broadcaster) renderBody(message, format string) (template.HTML, error) {
	if format == FormatMarkdown {
		var buf bytes.Buffer
		if err := b.markdown.Convert([]byte(message), &buf); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
	escaped := html.EscapeString(strings.ReplaceAll(message, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")), nil
}
