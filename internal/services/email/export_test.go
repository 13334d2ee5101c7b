// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import "github.com/wneessen/go-mail"

// SetSender replaces SMTP delivery in tests.
func (s *Service) SetSender(send func(msgs ...*mail.Msg) error) {
	s.send = send
}
