package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/mohamed-bella/dresseur-ma/internal/config"
)

// Sender delivers outbound mail and SMS-via-email messages.
type Sender interface {
	Send(to, subject, body string) error
	SendSMS(phone, message string) error
}

type smtpMailer struct {
	cfg    *config.SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func New(cfg *config.SMTPConfig, logger *zap.Logger) Sender {
	return &smtpMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger.Named("Mailer"),
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" || m.cfg.SenderEmail == "" {
		m.logger.Error("SMTP configuration is incomplete, mail not sent",
			zap.String("host", m.cfg.Host),
			zap.Bool("password_set", m.cfg.Password != ""))
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SenderEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendSMS relays a short message to a phone through the carrier's
// mail-to-SMS gateway. The recipient address is <phone>@<gateway-domain>.
func (m *smtpMailer) SendSMS(phone, message string) error {
	if m.cfg.SMSGatewayDomain == "" {
		m.logger.Warn("SMS gateway domain not configured, message dropped", zap.String("phone", phone))
		return fmt.Errorf("SMS gateway domain is not configured")
	}
	to := fmt.Sprintf("%s@%s", phone, m.cfg.SMSGatewayDomain)
	return m.Send(to, "", message)
}
