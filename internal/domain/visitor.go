package domain

import (
	"strings"
	"time"
)

// Visitor is a person's durable identity, reusable across visits.
// Registration deduplicates on matching email or phone.
type Visitor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterVisitorRequest struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	PhotoURL        string    `json:"photo_url"`
	HostID          int64     `json:"host_id"`
	Purpose         string    `json:"purpose"`
	AppointmentDate time.Time `json:"appointment_date"`
}

func (r *RegisterVisitorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Purpose = strings.TrimSpace(r.Purpose)
}

func (r *RegisterVisitorRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Purpose == "" || r.HostID == 0 || r.AppointmentDate.IsZero() {
		return ErrMissingRequiredField
	}
	if !isValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}
