package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/frontdesk/vms/internal/domain"
)

func TestParseVisitStatus(t *testing.T) {
	valid := []string{
		"pending", "approved", "rejected", "waiting",
		"in-session", "completed", "checked-in", "checked-out",
	}
	for _, s := range valid {
		status, ok := domain.ParseVisitStatus(s)
		if !ok {
			t.Errorf("ParseVisitStatus(%q) rejected a valid status", s)
		}
		if string(status) != s {
			t.Errorf("ParseVisitStatus(%q) = %q", s, status)
		}
	}

	invalid := []string{"", "Pending", "APPROVED", "in_session", "checkedin", "done"}
	for _, s := range invalid {
		if _, ok := domain.ParseVisitStatus(s); ok {
			t.Errorf("ParseVisitStatus(%q) accepted an invalid status", s)
		}
	}
}

func TestChecksInChecksOut(t *testing.T) {
	checksIn := map[domain.VisitStatus]bool{
		domain.StatusPending:    false,
		domain.StatusApproved:   false,
		domain.StatusRejected:   false,
		domain.StatusWaiting:    true,
		domain.StatusInSession:  false,
		domain.StatusCompleted:  false,
		domain.StatusCheckedIn:  true,
		domain.StatusCheckedOut: false,
	}
	checksOut := map[domain.VisitStatus]bool{
		domain.StatusPending:    false,
		domain.StatusApproved:   false,
		domain.StatusRejected:   false,
		domain.StatusWaiting:    false,
		domain.StatusInSession:  false,
		domain.StatusCompleted:  true,
		domain.StatusCheckedIn:  false,
		domain.StatusCheckedOut: true,
	}

	for status, want := range checksIn {
		if got := status.ChecksIn(); got != want {
			t.Errorf("%s.ChecksIn() = %v, want %v", status, got, want)
		}
	}
	for status, want := range checksOut {
		if got := status.ChecksOut(); got != want {
			t.Errorf("%s.ChecksOut() = %v, want %v", status, got, want)
		}
	}
}

// Full role-by-status permission matrix. Admin may set everything; the
// other roles only what their table row lists.
func TestMaySet(t *testing.T) {
	allStatuses := []domain.VisitStatus{
		domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		domain.StatusWaiting, domain.StatusInSession, domain.StatusCompleted,
		domain.StatusCheckedIn, domain.StatusCheckedOut,
	}

	allowed := map[domain.Role]map[domain.VisitStatus]bool{
		domain.RoleHost: {
			domain.StatusApproved: true, domain.StatusRejected: true,
			domain.StatusWaiting: true, domain.StatusInSession: true,
			domain.StatusCompleted: true,
		},
		domain.RoleReceptionist: {
			domain.StatusWaiting: true, domain.StatusInSession: true,
			domain.StatusCompleted: true,
		},
		domain.RoleSecurity: {
			domain.StatusWaiting: true, domain.StatusCompleted: true,
			domain.StatusCheckedIn: true, domain.StatusCheckedOut: true,
		},
	}

	for _, status := range allStatuses {
		if !domain.RoleAdmin.MaySet(status) {
			t.Errorf("admin.MaySet(%s) = false, want true", status)
		}
	}

	for role, table := range allowed {
		for _, status := range allStatuses {
			want := table[status]
			if got := role.MaySet(status); got != want {
				t.Errorf("%s.MaySet(%s) = %v, want %v", role, status, got, want)
			}
		}
	}

	// An unknown role has no row and may set nothing.
	for _, status := range allStatuses {
		if domain.Role("intern").MaySet(status) {
			t.Errorf("unknown role may not set %s", status)
		}
	}
}

func TestForbiddenTransitionError(t *testing.T) {
	err := &domain.ForbiddenTransitionError{Role: domain.RoleReceptionist, Status: domain.StatusApproved}

	if !errors.Is(err, domain.ErrForbiddenTransition) {
		t.Error("ForbiddenTransitionError should match ErrForbiddenTransition")
	}

	var target *domain.ForbiddenTransitionError
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed")
	}
	if target.Role != domain.RoleReceptionist || target.Status != domain.StatusApproved {
		t.Errorf("unexpected fields: %+v", target)
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "host", "receptionist", "security"} {
		if _, ok := domain.ParseRole(s); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", s)
		}
	}
	for _, s := range []string{"", "Admin", "guard", "superuser"} {
		if _, ok := domain.ParseRole(s); ok {
			t.Errorf("ParseRole(%q) accepted an invalid role", s)
		}
	}
}

func TestRegisterVisitorRequestValidate(t *testing.T) {
	base := func() domain.RegisterVisitorRequest {
		return domain.RegisterVisitorRequest{
			Name:            "Jane Visitor",
			Email:           "JANE@Example.com ",
			Phone:           " 555-0101 ",
			HostID:          3,
			Purpose:         "interview",
			AppointmentDate: mustTime(t, "2026-09-01T10:00:00Z"),
		}
	}

	req := base()
	req.Normalize()
	if req.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", req.Email)
	}
	if req.Phone != "555-0101" {
		t.Errorf("phone not trimmed: %q", req.Phone)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	missing := base()
	missing.Purpose = ""
	missing.Normalize()
	if err := missing.Validate(); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Errorf("want ErrMissingRequiredField, got %v", err)
	}

	badEmail := base()
	badEmail.Email = "not-an-email"
	badEmail.Normalize()
	if err := badEmail.Validate(); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Errorf("want ErrInvalidEmail, got %v", err)
	}
}

func TestCreateUserRequestValidate(t *testing.T) {
	deptID := int64(1)

	host := domain.CreateUserRequest{Name: "Bob", Email: "bob@corp.test", Password: "longenough", Role: "host"}
	if err := host.Validate(); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Errorf("host without department: want ErrMissingRequiredField, got %v", err)
	}
	host.DepartmentID = &deptID
	if err := host.Validate(); err != nil {
		t.Errorf("valid host rejected: %v", err)
	}

	weak := domain.CreateUserRequest{Name: "Bob", Email: "bob@corp.test", Password: "short", Role: "security"}
	if err := weak.Validate(); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("want ErrWeakPassword, got %v", err)
	}

	badRole := domain.CreateUserRequest{Name: "Bob", Email: "bob@corp.test", Password: "longenough", Role: "janitor"}
	if err := badRole.Validate(); !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("want ErrInvalidRole, got %v", err)
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", s, err)
	}
	return parsed
}
