package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/repo/postgres"
	"github.com/frontdesk/vms/pkg/events"
	"github.com/frontdesk/vms/pkg/logger"
)

// VisitService is the visit lifecycle engine: the only code path that
// changes a visit's status. Authorization is a flat role-to-statuses
// membership check against domain.AllowedStatusByRole; it never
// inspects the visit's current status (the check-in/check-out guards
// do, through conditional row updates).
type VisitService interface {
	RegisterVisit(ctx context.Context, req *domain.RegisterVisitorRequest) (*domain.Visitor, *domain.Visit, error)
	AddVisit(ctx context.Context, visitorID int64, req *domain.AddVisitRequest) (*domain.Visit, error)
	Transition(ctx context.Context, visitID int64, status domain.VisitStatus, actor domain.Actor) (*domain.Visit, error)
	CheckIn(ctx context.Context, visitID int64, actor domain.Actor) (*domain.Visit, error)
	CheckOut(ctx context.Context, visitID int64, actor domain.Actor) (*domain.Visit, error)
	ListVisits(ctx context.Context, filter domain.VisitFilter) ([]domain.VisitDetail, error)
	GetVisitor(ctx context.Context, id int64) (*domain.Visitor, []domain.VisitDetail, error)
	ListVisitors(ctx context.Context, limit, offset int) ([]domain.Visitor, error)
}

type visitService struct {
	visits   postgres.VisitsRepo
	visitors postgres.VisitorsRepo
	users    postgres.UsersRepo
	bus      events.Publisher
}

func NewVisitService(
	visits postgres.VisitsRepo,
	visitors postgres.VisitorsRepo,
	users postgres.UsersRepo,
	bus events.Publisher,
) VisitService {
	return &visitService{
		visits:   visits,
		visitors: visitors,
		users:    users,
		bus:      bus,
	}
}

func (s *visitService) RegisterVisit(ctx context.Context, req *domain.RegisterVisitorRequest) (*domain.Visitor, *domain.Visit, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	host, err := s.users.FindHostByID(ctx, req.HostID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up host: %w", err)
	}
	if host == nil {
		return nil, nil, domain.ErrHostNotFound
	}
	if host.DepartmentID == nil {
		return nil, nil, fmt.Errorf("host %d has no department", host.ID)
	}

	// Dedup: a matching email or phone reuses the existing visitor.
	visitor, err := s.visitors.FindByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if visitor == nil {
		visitor, err = s.visitors.Create(ctx, req.Name, req.Email, req.Phone, req.PhotoURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create visitor: %w", err)
		}
	}

	visit, err := s.visits.Create(ctx, visitor.ID, host.ID, *host.DepartmentID, req.Purpose, req.AppointmentDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create visit: %w", err)
	}

	s.publishVisitCreated(ctx, visit, visitor, host)

	return visitor, visit, nil
}

func (s *visitService) AddVisit(ctx context.Context, visitorID int64, req *domain.AddVisitRequest) (*domain.Visit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	visitor, err := s.visitors.FindByID(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if visitor == nil {
		return nil, domain.ErrVisitorNotFound
	}

	host, err := s.users.FindHostByID(ctx, req.HostID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up host: %w", err)
	}
	if host == nil {
		return nil, domain.ErrHostNotFound
	}
	if host.DepartmentID == nil {
		return nil, fmt.Errorf("host %d has no department", host.ID)
	}

	visit, err := s.visits.Create(ctx, visitor.ID, host.ID, *host.DepartmentID, req.Purpose, req.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	s.publishVisitCreated(ctx, visit, visitor, host)

	return visit, nil
}

func (s *visitService) Transition(ctx context.Context, visitID int64, status domain.VisitStatus, actor domain.Actor) (*domain.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visit: %w", err)
	}
	if visit == nil {
		return nil, domain.ErrVisitNotFound
	}

	if !actor.Role.MaySet(status) {
		return nil, &domain.ForbiddenTransitionError{Role: actor.Role, Status: status}
	}

	updated, err := s.visits.UpdateStatus(ctx, visitID, status, actor.UserID, status.ChecksIn(), status.ChecksOut())
	if err != nil {
		return nil, fmt.Errorf("failed to update visit status: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrVisitNotFound
	}

	s.publish(ctx, events.VisitStatusChanged, events.VisitStatusChangedEvent{
		VisitID:   updated.ID,
		Status:    string(updated.Status),
		ActorID:   actor.UserID,
		ActorRole: string(actor.Role),
		ChangedAt: updated.UpdatedAt,
	})

	return updated, nil
}

func (s *visitService) CheckIn(ctx context.Context, visitID int64, actor domain.Actor) (*domain.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visit: %w", err)
	}
	if visit == nil {
		return nil, domain.ErrVisitNotFound
	}

	updated, err := s.visits.CheckIn(ctx, visitID, actor.UserID, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to check in visit: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrAlreadyCheckedIn
	}

	var badge string
	if updated.BadgeCode != nil {
		badge = *updated.BadgeCode
	}
	var checkedIn time.Time
	if updated.CheckInTime != nil {
		checkedIn = *updated.CheckInTime
	}
	s.publish(ctx, events.VisitCheckedIn, events.VisitCheckedInEvent{
		VisitID:     updated.ID,
		BadgeCode:   badge,
		CheckInTime: checkedIn,
	})

	return updated, nil
}

func (s *visitService) CheckOut(ctx context.Context, visitID int64, actor domain.Actor) (*domain.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visit: %w", err)
	}
	if visit == nil {
		return nil, domain.ErrVisitNotFound
	}

	updated, err := s.visits.CheckOut(ctx, visitID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check out visit: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotCurrentlyInside
	}

	var checkedOut time.Time
	if updated.CheckOutTime != nil {
		checkedOut = *updated.CheckOutTime
	}
	s.publish(ctx, events.VisitCheckedOut, events.VisitCheckedOutEvent{
		VisitID:      updated.ID,
		CheckOutTime: checkedOut,
	})

	return updated, nil
}

func (s *visitService) ListVisits(ctx context.Context, filter domain.VisitFilter) ([]domain.VisitDetail, error) {
	return s.visits.List(ctx, filter)
}

func (s *visitService) GetVisitor(ctx context.Context, id int64) (*domain.Visitor, []domain.VisitDetail, error) {
	visitor, err := s.visitors.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if visitor == nil {
		return nil, nil, domain.ErrVisitorNotFound
	}

	visits, err := s.visits.ListByVisitor(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visitor, visits, nil
}

func (s *visitService) ListVisitors(ctx context.Context, limit, offset int) ([]domain.Visitor, error) {
	return s.visitors.List(ctx, limit, offset)
}

func (s *visitService) publishVisitCreated(ctx context.Context, visit *domain.Visit, visitor *domain.Visitor, host *domain.User) {
	s.publish(ctx, events.VisitCreated, events.VisitCreatedEvent{
		VisitID:         visit.ID,
		VisitorID:       visitor.ID,
		VisitorName:     visitor.Name,
		HostID:          host.ID,
		HostName:        host.Name,
		HostEmail:       host.Email,
		DepartmentID:    visit.DepartmentID,
		Purpose:         visit.Purpose,
		AppointmentDate: visit.AppointmentDate,
		CreatedAt:       visit.CreatedAt,
	})
}

// publish is fire-and-forget: a broken bus never fails the operation.
func (s *visitService) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.bus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}
