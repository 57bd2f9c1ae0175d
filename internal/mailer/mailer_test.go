package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/config"
)

func TestSend_IncompleteConfigFailsFast(t *testing.T) {
	sender := New(&config.SMTPConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())

	err := sender.Send("someone@example.com", "subject", "body")
	assert.Error(t, err)
}

func TestSendSMS_RequiresGatewayDomain(t *testing.T) {
	sender := New(&config.SMTPConfig{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "user",
		Password:    "pass",
		SenderEmail: "noreply@example.com",
	}, zap.NewNop())

	err := sender.SendSMS("0612345678", "message")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gateway domain")
}
