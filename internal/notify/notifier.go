// Package notify turns visit lifecycle events into host emails. It is
// entirely best-effort: a failed or undeliverable notification is
// logged and dropped, never propagated back to the visit operation.
package notify

import (
	"encoding/json"

	"github.com/frontdesk/vms/internal/mailer"
	"github.com/frontdesk/vms/pkg/events"
	"github.com/frontdesk/vms/pkg/logger"
)

type Notifier struct {
	bus    events.Subscriber
	mailer mailer.Service
}

func New(bus events.Subscriber, mailer mailer.Service) *Notifier {
	return &Notifier{bus: bus, mailer: mailer}
}

func (n *Notifier) Start() error {
	return n.bus.QueueSubscribe(events.VisitCreated, "notify", n.handleVisitCreated)
}

func (n *Notifier) handleVisitCreated(msg *events.Message) {
	var event events.VisitCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode visit created event", "error", err)
		return
	}

	if event.HostEmail == "" {
		return
	}

	err := n.mailer.SendVisitNotification(
		event.HostEmail,
		event.HostName,
		event.VisitorName,
		event.Purpose,
		event.AppointmentDate,
	)
	if err != nil {
		logger.Error("Failed to send visit notification",
			"error", err,
			"visit_id", event.VisitID,
			"host_email", event.HostEmail,
		)
		return
	}

	logger.Info("Visit notification sent", "visit_id", event.VisitID, "host_id", event.HostID)
}
