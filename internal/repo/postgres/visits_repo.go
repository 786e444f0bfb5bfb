package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/vms/internal/domain"
)

type VisitsRepo interface {
	Create(ctx context.Context, visitorID, hostID, departmentID int64, purpose string, appointmentDate time.Time) (*domain.Visit, error)
	FindByID(ctx context.Context, id int64) (*domain.Visit, error)
	// UpdateStatus applies a status change as one atomic row update.
	// Timestamps are stamped only when requested and only if still unset.
	UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus, actionBy int64, stampIn, stampOut bool) (*domain.Visit, error)
	// CheckIn succeeds only while the visit is not already waiting or
	// in-session; returns nil when the guard rejects the row.
	CheckIn(ctx context.Context, id, actionBy int64, badgeCode string) (*domain.Visit, error)
	// CheckOut succeeds only while the visit is waiting or in-session;
	// returns nil when the guard rejects the row.
	CheckOut(ctx context.Context, id, actionBy int64) (*domain.Visit, error)
	List(ctx context.Context, filter domain.VisitFilter) ([]domain.VisitDetail, error)
	ListByVisitor(ctx context.Context, visitorID int64) ([]domain.VisitDetail, error)
}

type VisitsRepoImpl struct{ pool *pgxpool.Pool }

func NewVisitsRepo(pool *pgxpool.Pool) *VisitsRepoImpl { return &VisitsRepoImpl{pool: pool} }

const visitCols = `id, visitor_id, host_id, department_id, purpose, appointment_date,
status, check_in_time, check_out_time, action_by, badge_code, created_at, updated_at`

func scanVisit(row pgx.Row) (*domain.Visit, error) {
	var v domain.Visit
	err := row.Scan(
		&v.ID, &v.VisitorID, &v.HostID, &v.DepartmentID, &v.Purpose, &v.AppointmentDate,
		&v.Status, &v.CheckInTime, &v.CheckOutTime, &v.ActionBy, &v.BadgeCode, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitsRepoImpl) Create(ctx context.Context, visitorID, hostID, departmentID int64, purpose string, appointmentDate time.Time) (*domain.Visit, error) {
	const q = `INSERT INTO visits (visitor_id, host_id, department_id, purpose, appointment_date, status)
VALUES ($1,$2,$3,$4,$5,'pending')
RETURNING ` + visitCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisit(r.pool.QueryRow(ctx, q, visitorID, hostID, departmentID, purpose, appointmentDate))
}

func (r *VisitsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Visit, error) {
	const q = `SELECT ` + visitCols + ` FROM visits WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisit(r.pool.QueryRow(ctx, q, id))
}

func (r *VisitsRepoImpl) UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus, actionBy int64, stampIn, stampOut bool) (*domain.Visit, error) {
	const q = `UPDATE visits SET
  status=$2,
  action_by=$3,
  check_in_time = CASE WHEN $4 THEN COALESCE(check_in_time, now()) ELSE check_in_time END,
  check_out_time = CASE WHEN $5 THEN COALESCE(check_out_time, now()) ELSE check_out_time END,
  updated_at = now()
WHERE id=$1
RETURNING ` + visitCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisit(r.pool.QueryRow(ctx, q, id, status, actionBy, stampIn, stampOut))
}

func (r *VisitsRepoImpl) CheckIn(ctx context.Context, id, actionBy int64, badgeCode string) (*domain.Visit, error) {
	const q = `UPDATE visits SET
  status='waiting',
  action_by=$2,
  check_in_time = COALESCE(check_in_time, now()),
  badge_code = COALESCE(badge_code, $3),
  updated_at = now()
WHERE id=$1 AND status NOT IN ('waiting','in-session')
RETURNING ` + visitCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisit(r.pool.QueryRow(ctx, q, id, actionBy, badgeCode))
}

func (r *VisitsRepoImpl) CheckOut(ctx context.Context, id, actionBy int64) (*domain.Visit, error) {
	const q = `UPDATE visits SET
  status='completed',
  action_by=$2,
  check_out_time = COALESCE(check_out_time, now()),
  updated_at = now()
WHERE id=$1 AND status IN ('waiting','in-session')
RETURNING ` + visitCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisit(r.pool.QueryRow(ctx, q, id, actionBy))
}

const visitDetailCols = `v.id, v.visitor_id, v.host_id, v.department_id, v.purpose, v.appointment_date,
v.status, v.check_in_time, v.check_out_time, v.action_by, v.badge_code, v.created_at, v.updated_at,
vis.name, u.name, d.name`

const visitDetailFrom = ` FROM visits v
JOIN visitors vis ON vis.id = v.visitor_id
JOIN users u ON u.id = v.host_id
JOIN departments d ON d.id = v.department_id`

func (r *VisitsRepoImpl) List(ctx context.Context, filter domain.VisitFilter) ([]domain.VisitDetail, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("v.status=$%d", len(args)))
	}
	if filter.HostID != 0 {
		args = append(args, filter.HostID)
		conds = append(conds, fmt.Sprintf("v.host_id=$%d", len(args)))
	}
	if filter.VisitorID != 0 {
		args = append(args, filter.VisitorID)
		conds = append(conds, fmt.Sprintf("v.visitor_id=$%d", len(args)))
	}
	if filter.DepartmentID != 0 {
		args = append(args, filter.DepartmentID)
		conds = append(conds, fmt.Sprintf("v.department_id=$%d", len(args)))
	}

	q := `SELECT ` + visitDetailCols + visitDetailFrom
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY v.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisitDetails(rows)
}

func (r *VisitsRepoImpl) ListByVisitor(ctx context.Context, visitorID int64) ([]domain.VisitDetail, error) {
	const q = `SELECT ` + visitDetailCols + visitDetailFrom + `
WHERE v.visitor_id=$1
ORDER BY v.created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisitDetails(rows)
}

func collectVisitDetails(rows pgx.Rows) ([]domain.VisitDetail, error) {
	ds := make([]domain.VisitDetail, 0)
	for rows.Next() {
		var d domain.VisitDetail
		if err := rows.Scan(
			&d.ID, &d.VisitorID, &d.HostID, &d.DepartmentID, &d.Purpose, &d.AppointmentDate,
			&d.Status, &d.CheckInTime, &d.CheckOutTime, &d.ActionBy, &d.BadgeCode, &d.CreatedAt, &d.UpdatedAt,
			&d.VisitorName, &d.HostName, &d.DepartmentName,
		); err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, rows.Err()
}

var _ VisitsRepo = (*VisitsRepoImpl)(nil)
