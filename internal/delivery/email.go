// Package delivery sends finished CSV exports to their recipients. The
// core pipeline only hands it a text blob and a record count; rendering and
// transport details stay out of the reconciliation code.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	log "github.com/sirupsen/logrus"
)

// EmailSender delivers a CSV export as an email attachment.
type EmailSender interface {
	SendExport(ctx context.Context, to string, csv []byte, recordCount int) error
}

// NewEmailSender returns a Mailgun-backed sender when the Mailgun settings
// are complete, otherwise a mock that only logs. The mock keeps local
// development working without credentials.
func NewEmailSender(domain, apiKey, senderEmail string) EmailSender {
	if domain == "" || apiKey == "" || senderEmail == "" {
		log.Warn("Mailgun configuration incomplete, export emails will be logged only")
		return &MockSender{}
	}
	return &MailgunSender{
		mg:          mailgun.NewMailgun(domain, apiKey),
		senderEmail: senderEmail,
	}
}

// MailgunSender delivers exports through the Mailgun API.
type MailgunSender struct {
	mg          mailgun.Mailgun
	senderEmail string
}

// SendExport sends the CSV as an attachment with a short summary body.
func (s *MailgunSender) SendExport(ctx context.Context, to string, csv []byte, recordCount int) error {
	subject := "Share transfer export"
	body := fmt.Sprintf("Attached is your share transfer export containing %d record(s).", recordCount)

	message := s.mg.NewMessage(s.senderEmail, subject, body, to)
	message.AddBufferAttachment("share_transfers.csv", csv)

	sendCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	resp, id, err := s.mg.Send(sendCtx, message)
	if err != nil {
		log.Errorf("Failed to send export email to %s: %v (response %q)", to, err, resp)
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	log.Infof("Export email sent to %s (message id %s)", to, id)
	return nil
}

// MockSender logs instead of sending. Used when Mailgun is not configured.
type MockSender struct{}

// SendExport implements EmailSender.
func (s *MockSender) SendExport(_ context.Context, to string, csv []byte, recordCount int) error {
	log.Infof("MockSender: would email %d-byte export with %d record(s) to %s", len(csv), recordCount, to)
	return nil
}
