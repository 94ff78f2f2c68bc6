package diary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

// Service works in the diary's local time. Everything handed to or read from the stores is
// normalised to UTC on the way.
type Service struct {
	store    Store
	settings SettingsStore
	staff    StaffDirectory
	loc      *time.Location
	newID    func() string
}

func NewService(store Store, settings SettingsStore, staff StaffDirectory, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		store:    store,
		settings: settings,
		staff:    staff,
		loc:      loc,
		newID:    uuid.NewString,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// ListEvents returns the staff member's events dated within [from, to], recurring events
// expanded into their occurrences.
func (s *Service) ListEvents(ctx context.Context, staffID string, from, to calendar.Date) ([]Event, error) {
	if to.Before(from) {
		return nil, invalid("end date %s is before start date %s", to, from)
	}

	// A local day can straddle two UTC dates.
	stored, err := s.store.ListEvents(ctx, staffID, from.AddDays(-1), to.AddDays(1))
	if err != nil {
		return nil, err
	}

	local := make([]Event, 0, len(stored))
	for _, event := range stored {
		local = append(local, s.toLocal(event))
	}

	return Expand(ctx, local, from, to, s.loc), nil
}

// Week loads the week containing pivot and lays it out.
func (s *Service) Week(ctx context.Context, staffID string, pivot calendar.Date) (*WeekView, error) {
	week := calendar.WeekOf(pivot)

	events, err := s.ListEvents(ctx, staffID, week.Start, week.End())
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		StaffID: staffID,
		Week:    week,
		Events:  events,
		Grid:    calendar.BuildGrid(events, week),
	}

	if s.settings != nil {
		settings, err := s.settings.GetSettings(ctx, staffID)
		switch {
		case err == nil:
			view.Settings = settings
		case errors.Is(err, ErrSettingsNotFound):
		default:
			log.Ctx(ctx).Warn().Err(err).Str("staff_id", staffID).Msg("diary settings unavailable")
		}
	}

	return view, nil
}

// ExportCalendar renders the week containing pivot as an iCalendar feed.
func (s *Service) ExportCalendar(ctx context.Context, staffID string, pivot calendar.Date) (string, error) {
	week := calendar.WeekOf(pivot)

	events, err := s.ListEvents(ctx, staffID, week.Start, week.End())
	if err != nil {
		return "", err
	}

	return Calendar("Diary "+staffID, events, s.loc), nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	local := s.toLocal(*event)

	return &local, nil
}

// CreateEvent validates and stores a new event. createdBy defaults to the event's staff id.
func (s *Service) CreateEvent(ctx context.Context, event Event, createdBy string) (*Event, error) {
	event = prepare(event)

	err := ValidateEvent(event)
	if err != nil {
		return nil, err
	}

	event.ID = s.newID()
	event.CreatedBy = createdBy

	if event.CreatedBy == "" {
		event.CreatedBy = event.StaffID
	}

	saved, err := s.store.CreateEvent(ctx, s.toUTC(event))
	if err != nil {
		return nil, err
	}

	local := s.toLocal(*saved)

	return &local, nil
}

// UpdateEvent replaces the schedule and payload of an existing event. Owner and author stay.
func (s *Service) UpdateEvent(ctx context.Context, id string, event Event) (*Event, error) {
	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.ID = existing.ID
	event.StaffID = existing.StaffID
	event.CreatedBy = existing.CreatedBy
	event = prepare(event)

	err = ValidateEvent(event)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.UpdateEvent(ctx, s.toUTC(event))
	if err != nil {
		return nil, err
	}

	local := s.toLocal(*saved)

	return &local, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.store.DeleteEvent(ctx, id)
}

// SubmitForm stores the payload of a form session: a new event on the session's date, or an
// update of the event the session was opened on.
func (s *Service) SubmitForm(ctx context.Context, session *forms.Session, actor string) (*Event, error) {
	interval, err := forms.Interval(session.Data, session.Date)
	if err != nil {
		return nil, err
	}

	event := Event{
		StaffID:   session.StaffID,
		EventType: session.Kind(),
		Date:      session.Date,
		StartTime: interval.Start,
		EndTime:   interval.End,
		Data:      session.Data,
	}

	if session.EventID != "" {
		return s.UpdateEvent(ctx, session.EventID, event)
	}

	return s.CreateEvent(ctx, event, actor)
}

func (s *Service) GetSettings(ctx context.Context, staffID string) (*Settings, error) {
	return s.settings.GetSettings(ctx, staffID)
}

func (s *Service) SaveSettings(ctx context.Context, staffID string, settings Settings) (*Settings, error) {
	settings.StaffID = staffID

	if settings.DiaryID == "" {
		current, err := s.settings.GetSettings(ctx, staffID)
		switch {
		case err == nil:
			settings.DiaryID = current.DiaryID
		case errors.Is(err, ErrSettingsNotFound):
			settings.DiaryID = s.newID()
		default:
			return nil, err
		}
	}

	return s.settings.SaveSettings(ctx, &settings)
}

func (s *Service) ListStaff(ctx context.Context) ([]Staff, error) {
	return s.staff.ListStaff(ctx)
}

// prepare aligns the payload with the event: same type, same times, and a title when none
// was given.
func prepare(event Event) Event {
	if event.Data == nil {
		return event
	}

	event.Data = forms.WithTimes(event.Data, event.StartTime.String(), event.EndTime.String())

	if event.EventType == "" {
		event.EventType = event.Data.Kind()
	}

	if event.Title == "" {
		event.Title = Summary(event.Data)
	}

	return event
}

func (s *Service) toUTC(event Event) *Event {
	date, start := calendar.ToUTC(s.loc, event.Date, event.StartTime)
	_, end := calendar.ToUTC(s.loc, event.Date, event.EndTime)

	event.Date = date
	event.StartTime = start
	event.EndTime = end

	if event.Data != nil {
		event.Data = forms.WithTimes(event.Data, start.String(), end.String())
	}

	return &event
}

// toLocal reverses toUTC. A UTC end before the UTC start belongs to the next UTC day.
func (s *Service) toLocal(event Event) Event {
	endDate := event.Date
	if event.EndTime < event.StartTime {
		endDate = endDate.AddDays(1)
	}

	date, start := calendar.FromUTC(s.loc, event.Date, event.StartTime)
	_, end := calendar.FromUTC(s.loc, endDate, event.EndTime)

	event.Date = date
	event.StartTime = start
	event.EndTime = end

	if event.Data != nil {
		event.Data = forms.WithTimes(event.Data, start.String(), end.String())
	}

	return event
}
