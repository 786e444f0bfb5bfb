package mailer

import "time"

// Service sends outbound mail. Notification is best-effort everywhere:
// callers log failures and never surface them.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendVisitNotification(hostEmail, hostName, visitorName, purpose string, appointment time.Time) error
}
