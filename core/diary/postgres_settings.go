package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pm-backoffice/pkg/resources"
)

type SettingsRepository struct {
	tracer  trace.Tracer
	metrics *resources.DBMetrics
	pool    resources.DBInstance
}

// NewSettingsRepository serves both the diary settings and the staff list.
func NewSettingsRepository(pool resources.DBInstance) *SettingsRepository {
	return &SettingsRepository{
		tracer:  otel.GetTracerProvider().Tracer("pm-backoffice/core/diary"),
		metrics: resources.NewDBMetrics("pm-backoffice/db", "postgres"),
		pool:    pool,
	}
}

func (r *SettingsRepository) GetSettings(ctx context.Context, staffID string) (*Settings, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "get_settings", start, err) }()

	ctx, span := r.tracer.Start(ctx, "SettingsRepository.GetSettings")
	defer span.End()

	var s Settings

	err = r.pool.QueryRow(ctx,
		`SELECT diary_id, staff_id, diary_colour, popup_notifi_en, email_notifi_en, updated_at
		 FROM diary_settings
		 WHERE staff_id = $1`,
		staffID,
	).Scan(&s.DiaryID, &s.StaffID, &s.DiaryColour, &s.PopupNotifyOn, &s.EmailNotifyOn, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get diary settings: %w", err)
	}

	return &s, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, settings *Settings) (*Settings, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "save_settings", start, err) }()

	ctx, span := r.tracer.Start(ctx, "SettingsRepository.SaveSettings")
	defer span.End()

	var s Settings

	err = r.pool.QueryRow(ctx,
		`INSERT INTO diary_settings (diary_id, staff_id, diary_colour, popup_notifi_en, email_notifi_en, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (staff_id) DO UPDATE
		 SET diary_colour = EXCLUDED.diary_colour,
		     popup_notifi_en = EXCLUDED.popup_notifi_en,
		     email_notifi_en = EXCLUDED.email_notifi_en,
		     updated_at = now()
		 RETURNING diary_id, staff_id, diary_colour, popup_notifi_en, email_notifi_en, updated_at`,
		settings.DiaryID, settings.StaffID, settings.DiaryColour, settings.PopupNotifyOn, settings.EmailNotifyOn,
	).Scan(&s.DiaryID, &s.StaffID, &s.DiaryColour, &s.PopupNotifyOn, &s.EmailNotifyOn, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save diary settings: %w", err)
	}

	return &s, nil
}

func (r *SettingsRepository) ListStaff(ctx context.Context) ([]Staff, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "list_staff", start, err) }()

	ctx, span := r.tracer.Start(ctx, "SettingsRepository.ListStaff")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, name, username, mob_phone, acc_level, status
		 FROM users
		 WHERE status = 'active'
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	staff := make([]Staff, 0)

	for rows.Next() {
		var s Staff

		err = rows.Scan(&s.UserID, &s.Name, &s.Username, &s.MobPhone, &s.AccLevel, &s.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}

		staff = append(staff, s)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	return staff, nil
}
