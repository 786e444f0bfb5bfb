package mailer

import (
	"time"

	"github.com/frontdesk/vms/pkg/logger"
)

// DevMailer logs mail instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendVisitNotification(hostEmail, hostName, visitorName, purpose string, appointment time.Time) error {
	subject, text, _ := visitNotificationBody(visitorName, purpose, appointment)
	logger.Info("[DEV MAIL] Visit notification",
		"to", hostEmail,
		"host", hostName,
		"subject", subject,
		"text", text,
	)
	return nil
}
