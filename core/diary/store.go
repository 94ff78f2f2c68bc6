package diary

import (
	"context"
	"time"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

// Store persists events. Dates and times crossing it are UTC.
type Store interface {
	// ListEvents returns the staff member's events dated within [from, to], plus every recurring
	// event dated on or before to.
	ListEvents(ctx context.Context, staffID string, from, to calendar.Date) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context, staffID string) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) (*Settings, error)
}

type StaffDirectory interface {
	ListStaff(ctx context.Context) ([]Staff, error)
}

// SessionStore keeps open form sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*forms.Session, error)
	Put(ctx context.Context, session *forms.Session) error
	Delete(ctx context.Context, id string) error
	// Lock marks the session as submitting. It fails with forms.ErrSubmitInFlight when a
	// submission already holds it.
	Lock(ctx context.Context, id string, ttl time.Duration) error
	Unlock(ctx context.Context, id string) error
}

// summary names an event for list views and calendar exports.
type summary struct{}

func Summary(d forms.EventData) string {
	if d == nil {
		return ""
	}

	s := forms.Dispatch[string](d, summary{})
	if s == "" {
		return d.Kind().String()
	}

	return s
}

func (summary) Appointment(d *forms.AppointmentData) string { return d.Title }
func (summary) Callback(d *forms.CallbackData) string       { return "Callback: " + d.Contact }
func (summary) Inspection(d *forms.InspectionData) string {
	return d.InspectionType + " inspection"
}
func (summary) Maintenance(d *forms.MaintenanceData) string {
	if d.Property == "" {
		return d.MaintenanceType + " maintenance"
	}

	return d.MaintenanceType + " maintenance: " + d.Property
}
func (summary) Note(d *forms.NoteData) string                   { return d.NoteType + " note" }
func (summary) PublicHoliday(d *forms.PublicHolidayData) string { return d.HolidayName }
func (summary) SickLeave(d *forms.SickLeaveData) string         { return d.Title }
func (summary) StaffHoliday(d *forms.StaffHolidayData) string   { return d.Title }
func (summary) StaffMeeting(d *forms.StaffMeetingData) string   { return d.Title }
func (summary) Training(d *forms.TrainingData) string           { return d.Title }
func (summary) Valuation(d *forms.ValuationData) string {
	if d.Title != "" {
		return d.Title
	}

	return "Valuation: " + d.Location
}
func (summary) Viewing(d *forms.ViewingData) string { return "Viewing: " + d.Property }
