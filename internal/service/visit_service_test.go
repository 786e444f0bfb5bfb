package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/service"
)

// ---------- Mocks ----------

// mockVisitsRepo mirrors the row-level guard semantics of the Postgres
// repo: conditional updates return nil when the guard rejects the row,
// and timestamps are stamped only if still unset.
type mockVisitsRepo struct {
	nextID int64
	visits map[int64]*domain.Visit
}

func newMockVisitsRepo() *mockVisitsRepo {
	return &mockVisitsRepo{nextID: 1, visits: make(map[int64]*domain.Visit)}
}

func (m *mockVisitsRepo) Create(_ context.Context, visitorID, hostID, departmentID int64, purpose string, appointmentDate time.Time) (*domain.Visit, error) {
	id := m.nextID
	m.nextID++
	now := time.Now()
	v := &domain.Visit{
		ID:              id,
		VisitorID:       visitorID,
		HostID:          hostID,
		DepartmentID:    departmentID,
		Purpose:         purpose,
		AppointmentDate: appointmentDate,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.visits[id] = v
	return clone(v), nil
}

func (m *mockVisitsRepo) FindByID(_ context.Context, id int64) (*domain.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (m *mockVisitsRepo) UpdateStatus(_ context.Context, id int64, status domain.VisitStatus, actionBy int64, stampIn, stampOut bool) (*domain.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	v.Status = status
	v.ActionBy = &actionBy
	if stampIn && v.CheckInTime == nil {
		v.CheckInTime = &now
	}
	if stampOut && v.CheckOutTime == nil {
		v.CheckOutTime = &now
	}
	v.UpdatedAt = now
	return clone(v), nil
}

func (m *mockVisitsRepo) CheckIn(_ context.Context, id, actionBy int64, badgeCode string) (*domain.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, nil
	}
	if v.Status == domain.StatusWaiting || v.Status == domain.StatusInSession {
		return nil, nil
	}
	now := time.Now()
	v.Status = domain.StatusWaiting
	v.ActionBy = &actionBy
	v.BadgeCode = &badgeCode
	if v.CheckInTime == nil {
		v.CheckInTime = &now
	}
	v.UpdatedAt = now
	return clone(v), nil
}

func (m *mockVisitsRepo) CheckOut(_ context.Context, id, actionBy int64) (*domain.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, nil
	}
	if v.Status != domain.StatusWaiting && v.Status != domain.StatusInSession {
		return nil, nil
	}
	now := time.Now()
	v.Status = domain.StatusCompleted
	v.ActionBy = &actionBy
	if v.CheckOutTime == nil {
		v.CheckOutTime = &now
	}
	v.UpdatedAt = now
	return clone(v), nil
}

func (m *mockVisitsRepo) List(_ context.Context, filter domain.VisitFilter) ([]domain.VisitDetail, error) {
	var out []domain.VisitDetail
	for _, v := range m.visits {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.HostID != 0 && v.HostID != filter.HostID {
			continue
		}
		if filter.VisitorID != 0 && v.VisitorID != filter.VisitorID {
			continue
		}
		if filter.DepartmentID != 0 && v.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, domain.VisitDetail{Visit: *clone(v)})
	}
	return out, nil
}

func (m *mockVisitsRepo) ListByVisitor(_ context.Context, visitorID int64) ([]domain.VisitDetail, error) {
	return m.List(context.Background(), domain.VisitFilter{VisitorID: visitorID})
}

func clone(v *domain.Visit) *domain.Visit {
	c := *v
	return &c
}

type mockVisitorsRepo struct {
	nextID   int64
	visitors map[int64]*domain.Visitor
}

func newMockVisitorsRepo() *mockVisitorsRepo {
	return &mockVisitorsRepo{nextID: 1, visitors: make(map[int64]*domain.Visitor)}
}

func (m *mockVisitorsRepo) Create(_ context.Context, name, email, phone, photoURL string) (*domain.Visitor, error) {
	id := m.nextID
	m.nextID++
	now := time.Now()
	v := &domain.Visitor{ID: id, Name: name, Email: email, Phone: phone, PhotoURL: photoURL, CreatedAt: now, UpdatedAt: now}
	m.visitors[id] = v
	return v, nil
}

func (m *mockVisitorsRepo) FindByEmailOrPhone(_ context.Context, email, phone string) (*domain.Visitor, error) {
	for _, v := range m.visitors {
		if v.Email == email {
			return v, nil
		}
		if phone != "" && v.Phone == phone {
			return v, nil
		}
	}
	return nil, nil
}

func (m *mockVisitorsRepo) FindByID(_ context.Context, id int64) (*domain.Visitor, error) {
	return m.visitors[id], nil
}

func (m *mockVisitorsRepo) List(_ context.Context, limit, offset int) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		out = append(out, *v)
	}
	return out, nil
}

type mockUsersRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newMockUsersRepo() *mockUsersRepo {
	return &mockUsersRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockUsersRepo) addHost(name string, departmentID int64) *domain.User {
	u := &domain.User{
		ID: m.nextID, Name: name, Email: name + "@corp.test",
		Role: domain.RoleHost, DepartmentID: &departmentID,
	}
	m.users[m.nextID] = u
	m.nextID++
	return u
}

func (m *mockUsersRepo) Create(_ context.Context, name, email, passwordHash string, role domain.Role, departmentID *int64) (*domain.User, error) {
	id := m.nextID
	m.nextID++
	now := time.Now()
	u := &domain.User{
		ID: id, Name: name, Email: email, PasswordHash: passwordHash,
		Role: role, DepartmentID: departmentID, CreatedAt: now, UpdatedAt: now,
	}
	m.users[id] = u
	return u, nil
}

func (m *mockUsersRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUsersRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUsersRepo) FindHostByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok || u.Role != domain.RoleHost {
		return nil, nil
	}
	return u, nil
}

func (m *mockUsersRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUsersRepo) ListHostsByDepartment(_ context.Context, departmentID int64) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if u.Role == domain.RoleHost && u.DepartmentID != nil && *u.DepartmentID == departmentID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUsersRepo) AdminExists(_ context.Context) (bool, error) {
	for _, u := range m.users {
		if u.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUsersRepo) Delete(_ context.Context, id int64) (bool, error) {
	u, ok := m.users[id]
	if !ok || u.Role == domain.RoleAdmin {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

type mockDepartmentsRepo struct {
	nextID      int64
	departments map[int64]*domain.Department
}

func newMockDepartmentsRepo() *mockDepartmentsRepo {
	return &mockDepartmentsRepo{nextID: 1, departments: make(map[int64]*domain.Department)}
}

func (m *mockDepartmentsRepo) add(name string) *domain.Department {
	d := &domain.Department{ID: m.nextID, Name: name}
	m.departments[m.nextID] = d
	m.nextID++
	return d
}

func (m *mockDepartmentsRepo) Create(_ context.Context, name, description string) (*domain.Department, error) {
	d := m.add(name)
	d.Description = description
	return d, nil
}

func (m *mockDepartmentsRepo) FindByID(_ context.Context, id int64) (*domain.Department, error) {
	return m.departments[id], nil
}

func (m *mockDepartmentsRepo) FindByName(_ context.Context, name string) (*domain.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDepartmentsRepo) List(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range m.departments {
		out = append(out, *d)
	}
	return out, nil
}

// recordingBus records published subjects; Publish never fails.
type recordingBus struct {
	subjects []string
}

func (b *recordingBus) Publish(_ context.Context, subject string, _ interface{}) error {
	b.subjects = append(b.subjects, subject)
	return nil
}

func (b *recordingBus) Close() error { return nil }

// ---------- Fixtures ----------

type visitFixture struct {
	svc      service.VisitService
	visits   *mockVisitsRepo
	visitors *mockVisitorsRepo
	users    *mockUsersRepo
	bus      *recordingBus
	host     *domain.User
}

func newVisitFixture() *visitFixture {
	visits := newMockVisitsRepo()
	visitors := newMockVisitorsRepo()
	users := newMockUsersRepo()
	bus := &recordingBus{}
	host := users.addHost("alice", 7)
	return &visitFixture{
		svc:      service.NewVisitService(visits, visitors, users, bus),
		visits:   visits,
		visitors: visitors,
		users:    users,
		bus:      bus,
		host:     host,
	}
}

func registerReq(hostID int64) *domain.RegisterVisitorRequest {
	return &domain.RegisterVisitorRequest{
		Name:            "Jane Visitor",
		Email:           "jane@example.com",
		Phone:           "555-0101",
		HostID:          hostID,
		Purpose:         "interview",
		AppointmentDate: time.Now().Add(24 * time.Hour),
	}
}

// ---------- Registration ----------

func TestRegisterVisitNewVisitor(t *testing.T) {
	f := newVisitFixture()

	visitor, visit, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	if visitor.Email != "jane@example.com" {
		t.Errorf("visitor email = %q", visitor.Email)
	}
	if visit.Status != domain.StatusPending {
		t.Errorf("new visit status = %s, want pending", visit.Status)
	}
	if visit.DepartmentID != 7 {
		t.Errorf("department snapshot = %d, want host's department 7", visit.DepartmentID)
	}
	if visit.CheckInTime != nil || visit.CheckOutTime != nil || visit.ActionBy != nil {
		t.Error("new visit must have no lifecycle fields set")
	}
	if len(f.bus.subjects) != 1 || f.bus.subjects[0] != "visit.created" {
		t.Errorf("published subjects = %v", f.bus.subjects)
	}
}

func TestRegisterVisitDedupByEmail(t *testing.T) {
	f := newVisitFixture()
	existing, _ := f.visitors.Create(context.Background(), "Jane Visitor", "jane@example.com", "", "")

	visitor, _, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	if visitor.ID != existing.ID {
		t.Errorf("visitor id = %d, want existing %d", visitor.ID, existing.ID)
	}
	if len(f.visitors.visitors) != 1 {
		t.Errorf("visitor count = %d, want 1", len(f.visitors.visitors))
	}
}

func TestRegisterVisitDedupByPhone(t *testing.T) {
	f := newVisitFixture()
	existing, _ := f.visitors.Create(context.Background(), "Jane Visitor", "other@example.com", "555-0101", "")

	visitor, _, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	if visitor.ID != existing.ID {
		t.Errorf("visitor id = %d, want existing %d", visitor.ID, existing.ID)
	}
}

func TestRegisterVisitEmptyPhoneNeverMatches(t *testing.T) {
	f := newVisitFixture()
	f.visitors.Create(context.Background(), "Someone Else", "else@example.com", "", "")

	req := registerReq(f.host.ID)
	req.Phone = ""
	visitor, _, err := f.svc.RegisterVisit(context.Background(), req)
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	if visitor.Email != "jane@example.com" {
		t.Errorf("matched the wrong visitor: %q", visitor.Email)
	}
	if len(f.visitors.visitors) != 2 {
		t.Errorf("visitor count = %d, want 2", len(f.visitors.visitors))
	}
}

func TestDepartmentSnapshotSurvivesHostMove(t *testing.T) {
	f := newVisitFixture()

	visitor, visit, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	if visit.DepartmentID != 7 {
		t.Fatalf("department snapshot = %d, want 7", visit.DepartmentID)
	}

	// The host transfers to another department. The existing visit keeps
	// the department it was created under; only new visits pick up the move.
	moved := int64(8)
	f.host.DepartmentID = &moved

	stored, err := f.visits.FindByID(context.Background(), visit.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.DepartmentID != 7 {
		t.Errorf("stored visit department = %d, want the original 7", stored.DepartmentID)
	}

	history, err := f.visits.ListByVisitor(context.Background(), visitor.ID)
	if err != nil {
		t.Fatalf("ListByVisitor: %v", err)
	}
	if len(history) != 1 || history[0].DepartmentID != 7 {
		t.Errorf("history = %+v, want one visit in department 7", history)
	}

	later, err := f.svc.AddVisit(context.Background(), visitor.ID, &domain.AddVisitRequest{
		HostID:          f.host.ID,
		Purpose:         "follow-up",
		AppointmentDate: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AddVisit: %v", err)
	}
	if later.DepartmentID != 8 {
		t.Errorf("new visit department = %d, want the host's current 8", later.DepartmentID)
	}
}

func TestRegisterVisitHostNotFound(t *testing.T) {
	f := newVisitFixture()

	_, _, err := f.svc.RegisterVisit(context.Background(), registerReq(999))
	if !errors.Is(err, domain.ErrHostNotFound) {
		t.Errorf("want ErrHostNotFound, got %v", err)
	}
}

func TestAddVisitForExistingVisitor(t *testing.T) {
	f := newVisitFixture()
	visitor, _, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}

	visit, err := f.svc.AddVisit(context.Background(), visitor.ID, &domain.AddVisitRequest{
		HostID:          f.host.ID,
		Purpose:         "follow-up",
		AppointmentDate: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AddVisit: %v", err)
	}
	if visit.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", visit.Status)
	}
	if visit.VisitorID != visitor.ID {
		t.Errorf("visitor id = %d, want %d", visit.VisitorID, visitor.ID)
	}

	_, err = f.svc.AddVisit(context.Background(), 999, &domain.AddVisitRequest{
		HostID: f.host.ID, Purpose: "x", AppointmentDate: time.Now(),
	})
	if !errors.Is(err, domain.ErrVisitorNotFound) {
		t.Errorf("want ErrVisitorNotFound, got %v", err)
	}
}

// ---------- Status transitions ----------

func (f *visitFixture) newVisit(t *testing.T) *domain.Visit {
	t.Helper()
	_, visit, err := f.svc.RegisterVisit(context.Background(), registerReq(f.host.ID))
	if err != nil {
		t.Fatalf("RegisterVisit: %v", err)
	}
	return visit
}

func TestTransitionHostApproves(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: f.host.ID, Role: domain.RoleHost}

	updated, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusApproved, actor)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != domain.StatusApproved {
		t.Errorf("status = %s, want approved", updated.Status)
	}
	if updated.ActionBy == nil || *updated.ActionBy != f.host.ID {
		t.Errorf("action_by = %v, want %d", updated.ActionBy, f.host.ID)
	}
	if updated.CheckInTime != nil || updated.CheckOutTime != nil {
		t.Error("approved must not stamp timestamps")
	}
}

func TestTransitionReceptionistForbidden(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: 42, Role: domain.RoleReceptionist}

	_, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusApproved, actor)
	if !errors.Is(err, domain.ErrForbiddenTransition) {
		t.Fatalf("want ErrForbiddenTransition, got %v", err)
	}

	var forbidden *domain.ForbiddenTransitionError
	if !errors.As(err, &forbidden) {
		t.Fatal("want *ForbiddenTransitionError")
	}
	if forbidden.Role != domain.RoleReceptionist || forbidden.Status != domain.StatusApproved {
		t.Errorf("unexpected fields: %+v", forbidden)
	}

	// The visit is untouched and nothing was published beyond creation.
	current, _ := f.visits.FindByID(context.Background(), visit.ID)
	if current.Status != domain.StatusPending {
		t.Errorf("status changed to %s on a forbidden transition", current.Status)
	}
	if len(f.bus.subjects) != 1 {
		t.Errorf("published subjects = %v", f.bus.subjects)
	}
}

func TestTransitionAdminUnrestricted(t *testing.T) {
	f := newVisitFixture()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	for _, status := range []domain.VisitStatus{
		domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		domain.StatusWaiting, domain.StatusInSession, domain.StatusCompleted,
		domain.StatusCheckedIn, domain.StatusCheckedOut,
	} {
		visit := f.newVisit(t)
		if _, err := f.svc.Transition(context.Background(), visit.ID, status, actor); err != nil {
			t.Errorf("admin transition to %s: %v", status, err)
		}
	}
}

func TestTransitionStampsTimestampsOnce(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: f.host.ID, Role: domain.RoleHost}

	first, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusWaiting, actor)
	if err != nil {
		t.Fatalf("Transition to waiting: %v", err)
	}
	if first.CheckInTime == nil {
		t.Fatal("waiting must stamp check-in time")
	}
	stamped := *first.CheckInTime

	// Bounce through in-session and back; the original stamp survives.
	if _, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusInSession, actor); err != nil {
		t.Fatalf("Transition to in-session: %v", err)
	}
	second, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusWaiting, actor)
	if err != nil {
		t.Fatalf("Transition back to waiting: %v", err)
	}
	if second.CheckInTime == nil || !second.CheckInTime.Equal(stamped) {
		t.Errorf("check-in time overwritten: %v -> %v", stamped, second.CheckInTime)
	}

	done, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusCompleted, actor)
	if err != nil {
		t.Fatalf("Transition to completed: %v", err)
	}
	if done.CheckOutTime == nil {
		t.Error("completed must stamp check-out time")
	}
	if done.CheckInTime == nil || !done.CheckInTime.Equal(stamped) {
		t.Error("completing must not disturb the check-in stamp")
	}
}

func TestTransitionVisitNotFound(t *testing.T) {
	f := newVisitFixture()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	_, err := f.svc.Transition(context.Background(), 999, domain.StatusApproved, actor)
	if !errors.Is(err, domain.ErrVisitNotFound) {
		t.Errorf("want ErrVisitNotFound, got %v", err)
	}
}

func TestTransitionPublishesStatusChanged(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: f.host.ID, Role: domain.RoleHost}

	if _, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusApproved, actor); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	want := []string{"visit.created", "visit.status_changed"}
	if len(f.bus.subjects) != 2 || f.bus.subjects[0] != want[0] || f.bus.subjects[1] != want[1] {
		t.Errorf("published subjects = %v, want %v", f.bus.subjects, want)
	}
}

// ---------- Security desk ----------

func TestCheckInAssignsBadge(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: 9, Role: domain.RoleSecurity}

	updated, err := f.svc.CheckIn(context.Background(), visit.ID, actor)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if updated.Status != domain.StatusWaiting {
		t.Errorf("status = %s, want waiting", updated.Status)
	}
	if updated.BadgeCode == nil || *updated.BadgeCode == "" {
		t.Error("check-in must assign a badge code")
	}
	if updated.CheckInTime == nil {
		t.Error("check-in must stamp the check-in time")
	}
	if f.bus.subjects[len(f.bus.subjects)-1] != "visit.checked_in" {
		t.Errorf("published subjects = %v", f.bus.subjects)
	}
}

func TestCheckInWhileInsideFails(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: 9, Role: domain.RoleSecurity}

	checkedIn, err := f.svc.CheckIn(context.Background(), visit.ID, actor)
	if err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	_, err = f.svc.CheckIn(context.Background(), visit.ID, actor)
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Errorf("want ErrAlreadyCheckedIn, got %v", err)
	}

	// The rejected attempt left the visit untouched.
	current, _ := f.visits.FindByID(context.Background(), visit.ID)
	if current.Status != domain.StatusWaiting {
		t.Errorf("status = %s after rejected check-in, want waiting", current.Status)
	}
	if current.CheckInTime == nil || !current.CheckInTime.Equal(*checkedIn.CheckInTime) {
		t.Errorf("check-in time disturbed by rejected check-in: %v", current.CheckInTime)
	}
	if current.BadgeCode == nil || *current.BadgeCode != *checkedIn.BadgeCode {
		t.Error("badge code disturbed by rejected check-in")
	}

	// Also blocked while the visit is in session.
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	if _, err := f.svc.Transition(context.Background(), visit.ID, domain.StatusInSession, admin); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	_, err = f.svc.CheckIn(context.Background(), visit.ID, actor)
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Errorf("want ErrAlreadyCheckedIn while in-session, got %v", err)
	}
}

func TestCheckOutRequiresBeingInside(t *testing.T) {
	f := newVisitFixture()
	visit := f.newVisit(t)
	actor := domain.Actor{UserID: 9, Role: domain.RoleSecurity}

	_, err := f.svc.CheckOut(context.Background(), visit.ID, actor)
	if !errors.Is(err, domain.ErrNotCurrentlyInside) {
		t.Errorf("checkout of a pending visit: want ErrNotCurrentlyInside, got %v", err)
	}

	// Still pending, no timestamps, after the rejected checkout.
	current, _ := f.visits.FindByID(context.Background(), visit.ID)
	if current.Status != domain.StatusPending {
		t.Errorf("status = %s after rejected checkout, want pending", current.Status)
	}
	if current.CheckOutTime != nil || current.CheckInTime != nil {
		t.Error("rejected checkout must not stamp timestamps")
	}

	if _, err := f.svc.CheckIn(context.Background(), visit.ID, actor); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	updated, err := f.svc.CheckOut(context.Background(), visit.ID, actor)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", updated.Status)
	}
	if updated.CheckOutTime == nil {
		t.Error("check-out must stamp the check-out time")
	}
	if f.bus.subjects[len(f.bus.subjects)-1] != "visit.checked_out" {
		t.Errorf("published subjects = %v", f.bus.subjects)
	}

	// Second checkout: no longer inside, and the completed record keeps
	// its original check-out stamp.
	_, err = f.svc.CheckOut(context.Background(), visit.ID, actor)
	if !errors.Is(err, domain.ErrNotCurrentlyInside) {
		t.Errorf("want ErrNotCurrentlyInside, got %v", err)
	}
	current, _ = f.visits.FindByID(context.Background(), visit.ID)
	if current.Status != domain.StatusCompleted {
		t.Errorf("status = %s after rejected checkout, want completed", current.Status)
	}
	if current.CheckOutTime == nil || !current.CheckOutTime.Equal(*updated.CheckOutTime) {
		t.Error("check-out time disturbed by rejected checkout")
	}
}

func TestCheckInVisitNotFound(t *testing.T) {
	f := newVisitFixture()
	actor := domain.Actor{UserID: 9, Role: domain.RoleSecurity}

	if _, err := f.svc.CheckIn(context.Background(), 999, actor); !errors.Is(err, domain.ErrVisitNotFound) {
		t.Errorf("CheckIn: want ErrVisitNotFound, got %v", err)
	}
	if _, err := f.svc.CheckOut(context.Background(), 999, actor); !errors.Is(err, domain.ErrVisitNotFound) {
		t.Errorf("CheckOut: want ErrVisitNotFound, got %v", err)
	}
}
