package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/platform/sendgrid"
)

type CertificateEmail struct {
	ToEmail           string
	ToName            string
	CourseTitle       string
	CertificateNumber string
	VerificationCode  string
	VerificationURL   string
	CEHours           string
	PDF               []byte
}

type Mailer interface {
	SendCertificateIssued(ctx context.Context, msg CertificateEmail) error
}

type mailer struct {
	log    *logger.Logger
	client sendgrid.Client
}

// NewMailer returns a mailer backed by SendGrid, or one that only logs when
// client is nil.
func NewMailer(log *logger.Logger, client sendgrid.Client) Mailer {
	return &mailer{log: log.With("service", "Mailer"), client: client}
}

func (m *mailer) SendCertificateIssued(ctx context.Context, msg CertificateEmail) error {
	if m.client == nil {
		m.log.Debug("Mail not configured, skipping certificate email", "certificate_number", msg.CertificateNumber)
		return nil
	}
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("recipient email required")
	}
	text := fmt.Sprintf(
		"Congratulations %s,\n\nYou earned %s of continuing education credit for %s.\n\n"+
			"Certificate number: %s\nVerification code: %s\n\nAnyone can confirm this certificate at:\n%s\n",
		msg.ToName, msg.CEHours, msg.CourseTitle, msg.CertificateNumber, msg.VerificationCode, msg.VerificationURL,
	)
	req := sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject:    "Your certificate for " + msg.CourseTitle,
		Text:       text,
		Categories: []string{"certificate_issued"},
		CustomArgs: map[string]string{"certificate_number": msg.CertificateNumber},
	}
	if len(msg.PDF) > 0 {
		req.Attachments = []sendgrid.Attachment{{
			Filename:    msg.CertificateNumber + ".pdf",
			MIMEType:    "application/pdf",
			Content:     msg.PDF,
			Disposition: "attachment",
		}}
	}
	res, err := m.client.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("send certificate email: %w", err)
	}
	m.log.Info("Certificate email sent", "certificate_number", msg.CertificateNumber, "message_id", res.MessageID)
	return nil
}
