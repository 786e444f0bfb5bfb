package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/frontdesk/vms/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	VisitCreated       = "visit.created"
	VisitStatusChanged = "visit.status_changed"
	VisitCheckedIn     = "visit.checked_in"
	VisitCheckedOut    = "visit.checked_out"
)

// Event payloads
type VisitCreatedEvent struct {
	VisitID         int64     `json:"visit_id"`
	VisitorID       int64     `json:"visitor_id"`
	VisitorName     string    `json:"visitor_name"`
	HostID          int64     `json:"host_id"`
	HostName        string    `json:"host_name"`
	HostEmail       string    `json:"host_email"`
	DepartmentID    int64     `json:"department_id"`
	Purpose         string    `json:"purpose"`
	AppointmentDate time.Time `json:"appointment_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type VisitStatusChangedEvent struct {
	VisitID   int64     `json:"visit_id"`
	Status    string    `json:"status"`
	ActorID   int64     `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	ChangedAt time.Time `json:"changed_at"`
}

type VisitCheckedInEvent struct {
	VisitID     int64     `json:"visit_id"`
	BadgeCode   string    `json:"badge_code"`
	CheckInTime time.Time `json:"check_in_time"`
}

type VisitCheckedOutEvent struct {
	VisitID      int64     `json:"visit_id"`
	CheckOutTime time.Time `json:"check_out_time"`
}
