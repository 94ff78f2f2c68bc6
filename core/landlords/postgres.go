package landlords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pm-backoffice/pkg/resources"
)

const landlordColumns = `landlord_id, landlord_type, coalesce(title, ''), coalesce(company_name, ''), coalesce(full_name, ''),
	coalesce(email, ''), phone_nr, status, coalesce(staff_assigned, ''), created_at, coalesce(updated_at, created_at)`

type RepositoryInterface interface {
	List(ctx context.Context, query ListQuery) ([]Landlord, error)
	Get(ctx context.Context, id string) (*Landlord, error)
	Create(ctx context.Context, landlord *Landlord) (*Landlord, error)
	Update(ctx context.Context, landlord *Landlord) (*Landlord, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	tracer  trace.Tracer
	metrics *resources.DBMetrics
	pool    resources.DBInstance
}

func NewRepository(pool resources.DBInstance) RepositoryInterface {
	return &repository{
		tracer:  otel.GetTracerProvider().Tracer("pm-backoffice/core/landlords"),
		metrics: resources.NewDBMetrics("pm-backoffice/db", "postgres"),
		pool:    pool,
	}
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Landlord, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "list_landlords", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.List")
	defer span.End()

	query = query.Normalize()

	sql := `SELECT ` + landlordColumns + ` FROM landlords`
	args := make([]any, 0, 1)

	if query.Status != "all" {
		sql += ` WHERE status = $1`
		args = append(args, query.Status)
	}

	// Both parts come from fixed whitelists.
	sql += ` ORDER BY ` + sortColumns[query.SortBy] + ` ` + strings.ToUpper(query.Order)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list landlords: %w", err)
	}
	defer rows.Close()

	landlords := make([]Landlord, 0)

	for rows.Next() {
		var l *Landlord

		l, err = scanLandlord(rows)
		if err != nil {
			return nil, err
		}

		landlords = append(landlords, *l)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to list landlords: %w", err)
	}

	return landlords, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Landlord, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "get_landlord", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.Get")
	defer span.End()

	l, err := scanLandlord(r.pool.QueryRow(ctx,
		`SELECT `+landlordColumns+` FROM landlords WHERE landlord_id = $1`,
		id,
	))
	if err != nil {
		return nil, err
	}

	return l, nil
}

func (r *repository) Create(ctx context.Context, landlord *Landlord) (*Landlord, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "create_landlord", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.Create")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	saved, err := scanLandlord(tx.QueryRow(ctx,
		`INSERT INTO landlords (landlord_id, landlord_type, title, company_name, full_name, email, phone_nr, status, staff_assigned)
		 VALUES ($1, $2, nullif($3, ''), nullif($4, ''), nullif($5, ''), nullif($6, ''), $7, $8, nullif($9, ''))
		 RETURNING `+landlordColumns,
		landlord.ID, landlord.Type, landlord.Title, landlord.CompanyName, landlord.FullName,
		landlord.Email, landlord.PhoneNr, landlord.Status, landlord.StaffAssigned,
	))
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

func (r *repository) Update(ctx context.Context, landlord *Landlord) (*Landlord, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "update_landlord", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.Update")
	defer span.End()

	saved, err := scanLandlord(r.pool.QueryRow(ctx,
		`UPDATE landlords
		 SET landlord_type = $2, title = nullif($3, ''), company_name = nullif($4, ''), full_name = nullif($5, ''),
		     email = nullif($6, ''), phone_nr = $7, status = $8, staff_assigned = nullif($9, ''), updated_at = now()
		 WHERE landlord_id = $1
		 RETURNING `+landlordColumns,
		landlord.ID, landlord.Type, landlord.Title, landlord.CompanyName, landlord.FullName,
		landlord.Email, landlord.PhoneNr, landlord.Status, landlord.StaffAssigned,
	))
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "delete_landlord", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.Delete")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM landlords WHERE landlord_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete landlord: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrLandlordNotFound
	}

	return nil
}

func scanLandlord(row pgx.Row) (*Landlord, error) {
	var l Landlord

	err := row.Scan(&l.ID, &l.Type, &l.Title, &l.CompanyName, &l.FullName,
		&l.Email, &l.PhoneNr, &l.Status, &l.StaffAssigned, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLandlordNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan landlord: %w", err)
	}

	return &l, nil
}
