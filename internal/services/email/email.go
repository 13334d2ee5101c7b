// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"github.com/wneessen/go-mail"
)

// MaxMessageLength limits the personal message of a shared wishlist.
const MaxMessageLength = 255

// ErrNoRecipients is returned when a share request names no valid address.
var ErrNoRecipients = errors.New("no valid recipients")

// Share describes a wishlist shared by email.
type Share struct {
	SenderName string
	Recipients []string
	Message    string
	Items      []string // product names
	URL        string   // public wishlist URL
}

// Service sends wishlist emails.
type Service struct {
	cfg  *config.SMTPConfig
	send func(msgs ...*mail.Msg) error
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	s := &Service{cfg: cfg}
	s.send = s.dialAndSend
	return s, nil
}

// ParseRecipients splits a comma or newline separated address list. Invalid
// addresses are reported, duplicates dropped, and at most limit addresses kept.
func ParseRecipients(raw string, limit int) ([]string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ';'
	})

	seen := make(map[string]bool, len(fields))
	var recipients []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		addr, err := netmail.ParseAddress(f)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", f, err)
		}
		key := strings.ToLower(addr.Address)
		if seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, addr.Address)
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if limit > 0 && len(recipients) > limit {
		return nil, fmt.Errorf("too many recipients: %d, at most %d allowed", len(recipients), limit)
	}
	return recipients, nil
}

// ShareWishlist sends one email per recipient.
func (s *Service) ShareWishlist(ctx context.Context, share *Share) error {
	if len(share.Recipients) == 0 {
		return ErrNoRecipients
	}

	msgs := make([]*mail.Msg, 0, len(share.Recipients))
	for _, to := range share.Recipients {
		msg, err := s.buildShareMessage(ctx, to, share)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return s.send(msgs...)
}

func (s *Service) buildShareMessage(ctx context.Context, to string, share *Share) (*mail.Msg, error) {
	var items strings.Builder
	for _, name := range share.Items {
		items.WriteString("- ")
		items.WriteString(name)
		items.WriteString("\n")
	}

	message := strings.TrimSpace(share.Message)
	if len(message) > MaxMessageLength {
		message = message[:MaxMessageLength]
	}
	if message != "" {
		message += "\n"
	}

	subject := i18n.TData(ctx, "wishlist_share_subject", map[string]any{
		"Name": share.SenderName,
	})
	body := i18n.TData(ctx, "wishlist_share_body", map[string]any{
		"Name":    share.SenderName,
		"Items":   items.String(),
		"Message": message,
		"URL":     share.URL,
	})

	return s.newMessage(to, subject, body)
}

func (s *Service) newMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// dialAndSend delivers messages via SMTP using go-mail.
func (s *Service) dialAndSend(msgs ...*mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS on 465, STARTTLS elsewhere
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msgs...); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
