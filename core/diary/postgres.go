package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
	"pm-backoffice/pkg/resources"
)

const eventColumns = `id, staff_id, event_type, date, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'),
	coalesce(title, ''), coalesce(description, ''), data, coalesce(created_by, ''), created_at, coalesce(updated_at, created_at)`

type postgresStore struct {
	tracer  trace.Tracer
	metrics *resources.DBMetrics
	pool    resources.DBInstance
}

func NewPostgresStore(pool resources.DBInstance) Store {
	return &postgresStore{
		tracer:  otel.GetTracerProvider().Tracer("pm-backoffice/core/diary"),
		metrics: resources.NewDBMetrics("pm-backoffice/db", "postgres"),
		pool:    pool,
	}
}

func (r *postgresStore) ListEvents(ctx context.Context, staffID string, from, to calendar.Date) ([]Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "list_events", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgresStore.ListEvents")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE staff_id = $1 AND (date BETWEEN $2 AND $3 OR (recurring AND date <= $3))
		 ORDER BY date, start_time`,
		staffID, from.In(time.UTC), to.In(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)

	for rows.Next() {
		var e *Event

		e, err = scanEvent(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, *e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

func (r *postgresStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "get_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgresStore.GetEvent")
	defer span.End()

	e, err := scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (r *postgresStore) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "create_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgresStore.CreateEvent")
	defer span.End()

	data, err := forms.Encode(event.Data)
	if err != nil {
		return nil, err
	}

	_, recurring := event.Recurrence()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	saved, err := scanEvent(tx.QueryRow(ctx,
		`INSERT INTO events (id, staff_id, event_type, date, start_time, end_time, title, description, data, recurring, created_by)
		 VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10, $11)
		 RETURNING `+eventColumns,
		event.ID, event.StaffID, string(event.EventType), event.Date.In(time.UTC),
		event.StartTime.Long(), event.EndTime.Long(),
		event.Title, event.Description, data, recurring, event.CreatedBy,
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

func (r *postgresStore) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "update_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgresStore.UpdateEvent")
	defer span.End()

	data, err := forms.Encode(event.Data)
	if err != nil {
		return nil, err
	}

	_, recurring := event.Recurrence()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	saved, err := scanEvent(tx.QueryRow(ctx,
		`UPDATE events
		 SET event_type = $2, date = $3, start_time = $4::time, end_time = $5::time,
		     title = $6, description = $7, data = $8, recurring = $9, updated_at = now()
		 WHERE id = $1
		 RETURNING `+eventColumns,
		event.ID, string(event.EventType), event.Date.In(time.UTC),
		event.StartTime.Long(), event.EndTime.Long(),
		event.Title, event.Description, data, recurring,
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

func (r *postgresStore) DeleteEvent(ctx context.Context, id string) error {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "delete_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgresStore.DeleteEvent")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	var (
		e                  Event
		eventType          string
		date               time.Time
		startTime, endTime string
		data               []byte
	)

	err := row.Scan(&e.ID, &e.StaffID, &eventType, &date, &startTime, &endTime,
		&e.Title, &e.Description, &data, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	e.Date = calendar.DateOf(date)

	e.StartTime, err = calendar.ParseClock(startTime)
	if err != nil {
		return nil, fmt.Errorf("event %s start time: %w", e.ID, err)
	}

	e.EndTime, err = calendar.ParseClock(endTime)
	if err != nil {
		return nil, fmt.Errorf("event %s end time: %w", e.ID, err)
	}

	e.Data, err = forms.DecodeAs(forms.Kind(eventType), data)
	if err != nil {
		return nil, fmt.Errorf("event %s data: %w", e.ID, err)
	}

	e.EventType = e.Data.Kind()

	return &e, nil
}
