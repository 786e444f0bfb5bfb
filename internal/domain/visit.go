package domain

import "time"

// VisitStatus is the closed set of visit lifecycle statuses. The main
// track runs pending -> approved|rejected -> waiting -> in-session ->
// completed; checked-in/checked-out is the vocabulary the security desk
// uses against the same record.
type VisitStatus string

const (
	StatusPending    VisitStatus = "pending"
	StatusApproved   VisitStatus = "approved"
	StatusRejected   VisitStatus = "rejected"
	StatusWaiting    VisitStatus = "waiting"
	StatusInSession  VisitStatus = "in-session"
	StatusCompleted  VisitStatus = "completed"
	StatusCheckedIn  VisitStatus = "checked-in"
	StatusCheckedOut VisitStatus = "checked-out"
)

func ParseVisitStatus(s string) (VisitStatus, bool) {
	switch VisitStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusWaiting,
		StatusInSession, StatusCompleted, StatusCheckedIn, StatusCheckedOut:
		return VisitStatus(s), true
	default:
		return "", false
	}
}

// ChecksIn reports whether entering this status counts as the visitor
// arriving on site, which stamps the check-in time.
func (s VisitStatus) ChecksIn() bool {
	return s == StatusWaiting || s == StatusCheckedIn
}

// ChecksOut reports whether entering this status counts as the visitor
// leaving, which stamps the check-out time.
func (s VisitStatus) ChecksOut() bool {
	return s == StatusCompleted || s == StatusCheckedOut
}

// AllowedStatusByRole maps each role to the statuses it may set through
// the generic status update. This is a flat membership table, not a
// transition graph: it deliberately does not check whether the target
// status is reachable from the visit's current status. Admins are not
// listed and may set any status.
var AllowedStatusByRole = map[Role][]VisitStatus{
	RoleHost:         {StatusApproved, StatusRejected, StatusWaiting, StatusInSession, StatusCompleted},
	RoleReceptionist: {StatusWaiting, StatusInSession, StatusCompleted},
	RoleSecurity:     {StatusWaiting, StatusCompleted, StatusCheckedIn, StatusCheckedOut},
}

// MaySet reports whether the role is permitted to set the given status.
func (r Role) MaySet(status VisitStatus) bool {
	if r == RoleAdmin {
		return true
	}
	for _, s := range AllowedStatusByRole[r] {
		if s == status {
			return true
		}
	}
	return false
}

// Visit is one appointment between a visitor and a host. DepartmentID
// is a snapshot of the host's department taken at creation time and is
// never re-derived from the host afterward. Status, the timestamps,
// ActionBy and BadgeCode are owned exclusively by the lifecycle
// operations.
type Visit struct {
	ID              int64       `json:"id"`
	VisitorID       int64       `json:"visitor_id"`
	HostID          int64       `json:"host_id"`
	DepartmentID    int64       `json:"department_id"`
	Purpose         string      `json:"purpose"`
	AppointmentDate time.Time   `json:"appointment_date"`
	Status          VisitStatus `json:"status"`
	CheckInTime     *time.Time  `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time  `json:"check_out_time,omitempty"`
	ActionBy        *int64      `json:"action_by,omitempty"`
	BadgeCode       *string     `json:"badge_code,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// VisitDetail is a visit joined with the names the front-desk views
// show alongside it.
type VisitDetail struct {
	Visit
	VisitorName    string `json:"visitor_name"`
	HostName       string `json:"host_name"`
	DepartmentName string `json:"department_name"`
}

// VisitFilter narrows visit listings. Zero values mean "no filter".
type VisitFilter struct {
	Status       VisitStatus
	HostID       int64
	VisitorID    int64
	DepartmentID int64
	Limit        int
	Offset       int
}

type AddVisitRequest struct {
	HostID          int64     `json:"host_id"`
	Purpose         string    `json:"purpose"`
	AppointmentDate time.Time `json:"appointment_date"`
}

func (r *AddVisitRequest) Validate() error {
	if r.HostID == 0 || r.Purpose == "" || r.AppointmentDate.IsZero() {
		return ErrMissingRequiredField
	}
	return nil
}

type UpdateVisitStatusRequest struct {
	Status string `json:"status"`
}
