package alerts

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPSender sends signal alerts via email
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       []string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, user, password, from string, to []string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
	}
}

// Send sends the signal via email
func (s *SMTPSender) Send(ctx context.Context, payload *SignalPayload) error {
	if len(s.to) == 0 {
		return fmt.Errorf("no SMTP recipients configured")
	}

	subject := fmt.Sprintf("[%s] %s signal on %s", payload.Severity, payload.Signal, payload.MarketQuestion)
	body := s.buildEmailBody(payload)

	message := fmt.Sprintf("From: %s\r\n", s.from)
	message += fmt.Sprintf("To: %s\r\n", s.to[0])
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, s.to, []byte(message))
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

func (s *SMTPSender) buildEmailBody(payload *SignalPayload) string {
	body := fmt.Sprintf("POLYSIGNAL - %s\n", payload.Severity)
	body += "=======================================\n\n"
	body += "MARKET\n"
	body += "---------------------------------------\n"
	body += fmt.Sprintf("Question:       %s\n", payload.MarketQuestion)
	body += fmt.Sprintf("Category:       %s\n", payload.Category)
	body += fmt.Sprintf("YES price:      %.2f\n", payload.YesPrice)
	body += fmt.Sprintf("URL:            %s\n\n", payload.MarketURL)
	body += "SIGNAL\n"
	body += "---------------------------------------\n"
	body += fmt.Sprintf("Direction:      %s (%s)\n", payload.Signal, payload.Strength)
	body += fmt.Sprintf("Confidence:     %.1f/10\n", payload.Confidence)
	body += fmt.Sprintf("YES vote:       %.1f%% (%d wallets)\n", payload.YesPct, payload.YesCount)
	body += fmt.Sprintf("NO vote:        %.1f%% (%d wallets)\n", payload.NoPct, payload.NoCount)
	body += fmt.Sprintf("Qualified:      %d of %d holders\n", payload.Qualified, payload.TotalHolders)
	body += fmt.Sprintf("Top-5:          %s\n\n", payload.Top5Consensus)

	if payload.WhaleWarning != "" {
		body += fmt.Sprintf("WARNING: %s\n", payload.WhaleWarning)
	}
	if payload.ClusterWarning != "" {
		body += fmt.Sprintf("WARNING: %s\n", payload.ClusterWarning)
	}
	if payload.WhaleWarning != "" || payload.ClusterWarning != "" {
		body += "\n"
	}

	body += "REASONING\n"
	body += "---------------------------------------\n"
	body += payload.Reasoning + "\n\n"
	body += "=======================================\n"
	body += fmt.Sprintf("Environment: %s\n", payload.Environment)
	body += fmt.Sprintf("Generated: %s\n", payload.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	body += "\nNote: signals summarize historical wallet behavior;\n"
	body += "they are NOT financial advice.\n"

	return body
}
