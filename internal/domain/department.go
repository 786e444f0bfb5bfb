package domain

import (
	"strings"
	"time"
)

// Department is created by the admin and immutable afterward. Hosts
// reference it, and visits copy its id at creation time.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateDepartmentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateDepartmentRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingRequiredField
	}
	return nil
}
