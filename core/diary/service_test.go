package diary

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

func london(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	return loc
}

func TestService_CreateEventNormalisesToUTC(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name      string
		date      string
		start     string
		end       string
		wantDate  string
		wantStart string
		wantEnd   string
	}{
		{
			name: "summer time", date: "2025-07-10", start: "09:00", end: "09:30",
			wantDate: "2025-07-10", wantStart: "08:00", wantEnd: "08:30",
		},
		{
			name: "winter time", date: "2025-01-10", start: "09:00", end: "09:30",
			wantDate: "2025-01-10", wantStart: "09:00", wantEnd: "09:30",
		},
		{
			name: "shifts to the previous UTC day", date: "2025-07-10", start: "00:30", end: "01:00",
			wantDate: "2025-07-09", wantStart: "23:30", wantEnd: "00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockStore)
			store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *Event) bool {
				start, end := forms.Times(e.Data)

				return e.Date == calendar.MustParseDate(tt.wantDate) &&
					e.StartTime.String() == tt.wantStart &&
					e.EndTime.String() == tt.wantEnd &&
					start == tt.wantStart && end == tt.wantEnd
			})).Return(func(_ context.Context, e *Event) *Event { return echo(e) }, nil)

			service := NewService(store, nil, nil, london(t))
			service.newID = func() string { return "e1" }

			event := viewingEvent(t, "", tt.date, tt.start, tt.end)
			event.CreatedBy = ""

			got, err := service.CreateEvent(ctx, event, "author")
			require.NoError(t, err)

			assert.Equal(t, "e1", got.ID)
			assert.Equal(t, "author", got.CreatedBy)
			assert.Equal(t, calendar.MustParseDate(tt.date), got.Date)
			assert.Equal(t, tt.start, got.StartTime.String())
			assert.Equal(t, tt.end, got.EndTime.String())

			start, end := forms.Times(got.Data)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)

			store.AssertExpectations(t)
		})
	}
}

func TestService_CreateEventRejectsInvalid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	incomplete := viewingEvent(t, "", "2025-03-10", "09:00", "09:30")
	incomplete.Data.(*forms.ViewingData).Property = ""

	backwards := viewingEvent(t, "", "2025-03-10", "10:00", "09:30")

	mismatched := viewingEvent(t, "", "2025-03-10", "09:00", "09:30")
	mismatched.EventType = forms.KindNote

	tests := []struct {
		name    string
		event   Event
		wantErr error
		missing []string
	}{
		{name: "missing fields", event: incomplete, missing: []string{"property"}},
		{name: "end before start", event: backwards, wantErr: ErrInvalidEvent},
		{name: "type mismatch", event: mismatched, wantErr: ErrInvalidEvent},
		{name: "no staff", event: Event{Date: calendar.MustParseDate("2025-03-10")}, wantErr: ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockStore)
			service := NewService(store, nil, nil, time.UTC)

			_, err := service.CreateEvent(ctx, tt.event, "")
			require.Error(t, err)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			if tt.missing != nil {
				var verr *forms.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.missing, verr.Missing)
			}

			store.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestService_GetEventWrapsEnd(t *testing.T) {
	t.Parallel()

	stored := viewingEvent(t, "e1", "2025-07-09", "23:30", "00:00")

	store := new(MockStore)
	store.On("GetEvent", mock.Anything, "e1").Return(&stored, nil)

	got, err := NewService(store, nil, nil, london(t)).GetEvent(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, calendar.MustParseDate("2025-07-10"), got.Date)
	assert.Equal(t, "00:30", got.StartTime.String())
	assert.Equal(t, "01:00", got.EndTime.String())
}

func TestService_ListEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	from := calendar.MustParseDate("2025-03-10")
	to := calendar.MustParseDate("2025-03-16")

	d, err := forms.NewEventData(forms.KindNote)
	require.NoError(t, err)

	note := d.(*forms.NoteData)
	note.StartTime = "08:00"
	note.EndTime = "08:30"
	note.Note = "Team stand-up"
	note.IsRecurring = true
	note.RecurrencePattern = "weekly"

	recurring := Event{
		ID:        "r1",
		StaffID:   "staff-1",
		EventType: forms.KindNote,
		Date:      calendar.MustParseDate("2025-03-03"),
		StartTime: calendar.MustParseClock("08:00"),
		EndTime:   calendar.MustParseClock("08:30"),
		Data:      note,
	}
	inside := viewingEvent(t, "e1", "2025-03-12", "10:00", "10:30")
	before := viewingEvent(t, "e0", "2025-03-09", "10:00", "10:30")

	store := new(MockStore)
	store.On("ListEvents", mock.Anything, "staff-1", from.AddDays(-1), to.AddDays(1)).
		Return([]Event{recurring, before, inside}, nil)

	got, err := NewService(store, nil, nil, time.UTC).ListEvents(ctx, "staff-1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, from, got[0].Date)
	assert.True(t, got[0].Occurrence)
	assert.NotSame(t, note, got[0].Data)

	assert.Equal(t, "e1", got[1].ID)
	assert.False(t, got[1].Occurrence)

	store.AssertExpectations(t)
}

func TestService_ListEventsRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	store := new(MockStore)

	_, err := NewService(store, nil, nil, time.UTC).ListEvents(context.Background(), "staff-1",
		calendar.MustParseDate("2025-03-10"), calendar.MustParseDate("2025-03-09"))
	require.ErrorIs(t, err, ErrInvalidEvent)
	store.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Week(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	week := calendar.WeekOf(calendar.MustParseDate("2025-03-12"))

	a := viewingEvent(t, "a", "2025-03-12", "09:00", "10:00")
	b := viewingEvent(t, "b", "2025-03-12", "09:30", "10:00")

	tests := []struct {
		name         string
		settings     *Settings
		settingsErr  error
		wantSettings bool
	}{
		{name: "with settings", settings: &Settings{StaffID: "staff-1", DiaryColour: "#fff"}, wantSettings: true},
		{name: "no settings", settingsErr: ErrSettingsNotFound},
		{name: "settings failure", settingsErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockStore)
			store.On("ListEvents", mock.Anything, "staff-1", week.Start.AddDays(-1), week.End().AddDays(1)).
				Return([]Event{a, b}, nil)

			settings := new(MockSettings)
			settings.On("GetSettings", mock.Anything, "staff-1").Return(tt.settings, tt.settingsErr)

			view, err := NewService(store, settings, settings, time.UTC).Week(ctx, "staff-1", calendar.MustParseDate("2025-03-12"))
			require.NoError(t, err)

			assert.Equal(t, week, view.Week)
			assert.Len(t, view.Events, 2)
			assert.Equal(t, tt.wantSettings, view.Settings != nil)

			wednesday := view.Grid.Days[2]
			assert.Equal(t, "Wed", wednesday.Weekday)
			require.Len(t, wednesday.Cells, 2)

			assert.Equal(t, calendar.MustParseClock("09:00"), wednesday.Cells[0].Slot)
			assert.Equal(t, 1, wednesday.Cells[0].TotalColumns)
			assert.Equal(t, calendar.MustParseClock("09:30"), wednesday.Cells[1].Slot)
			assert.Equal(t, 2, wednesday.Cells[1].TotalColumns)
			assert.Equal(t, "b", wednesday.Cells[1].Placements[1].Event.ID)
		})
	}
}

func TestService_UpdateEventKeepsOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	existing := viewingEvent(t, "e1", "2025-03-10", "09:00", "09:30")
	existing.CreatedBy = "author"

	store := new(MockStore)
	store.On("GetEvent", mock.Anything, "e1").Return(&existing, nil)
	store.On("UpdateEvent", mock.Anything, mock.MatchedBy(func(e *Event) bool {
		return e.ID == "e1" && e.StaffID == "staff-1" && e.CreatedBy == "author" && e.StartTime.String() == "11:00"
	})).Return(func(_ context.Context, e *Event) *Event { return echo(e) }, nil)

	update := viewingEvent(t, "", "2025-03-10", "11:00", "11:30")
	update.StaffID = "someone-else"
	update.CreatedBy = "someone-else"

	got, err := NewService(store, nil, nil, time.UTC).UpdateEvent(ctx, "e1", update)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", got.StaffID)

	store.AssertExpectations(t)
}

func TestService_SubmitForm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	date := calendar.MustParseDate("2025-03-10")

	t.Run("new event", func(t *testing.T) {
		t.Parallel()

		session := forms.NewSession("f1", "staff-1", date, calendar.MustParseClock("10:00"))
		require.NoError(t, session.SelectKind(forms.KindAppointment))
		require.NoError(t, session.ApplyFields([]byte(`{"title":"Rent review","appointmentType":"Meeting","staff":["s1"]}`)))

		store := new(MockStore)
		store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *Event) bool {
			return e.EventType == forms.KindAppointment &&
				e.StartTime.String() == "10:00" && e.EndTime.String() == "11:00" &&
				e.Title == "Rent review" && e.CreatedBy == "actor"
		})).Return(func(_ context.Context, e *Event) *Event { return echo(e) }, nil)

		got, err := NewService(store, nil, nil, time.UTC).SubmitForm(ctx, session, "actor")
		require.NoError(t, err)
		assert.Equal(t, date, got.Date)
		store.AssertExpectations(t)
	})

	t.Run("existing event", func(t *testing.T) {
		t.Parallel()

		existing := viewingEvent(t, "e1", "2025-03-10", "09:00", "09:30")
		session := forms.EditSession("f2", "staff-1", "e1", date, existing.Data)
		require.NoError(t, session.SetStartTime("14:00"))

		store := new(MockStore)
		store.On("GetEvent", mock.Anything, "e1").Return(&existing, nil)
		store.On("UpdateEvent", mock.Anything, mock.MatchedBy(func(e *Event) bool {
			return e.ID == "e1" && e.StartTime.String() == "14:00" && e.EndTime.String() == "14:30"
		})).Return(func(_ context.Context, e *Event) *Event { return echo(e) }, nil)

		_, err := NewService(store, nil, nil, time.UTC).SubmitForm(ctx, session, "actor")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestService_SaveSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name      string
		current   *Settings
		getErr    error
		wantID    string
		wantError bool
	}{
		{name: "keeps the diary id", current: &Settings{DiaryID: "d1"}, wantID: "d1"},
		{name: "creates a diary id", getErr: ErrSettingsNotFound, wantID: "generated"},
		{name: "lookup failure", getErr: errors.New("db error"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := new(MockSettings)
			settings.On("GetSettings", mock.Anything, "staff-1").Return(tt.current, tt.getErr)

			if !tt.wantError {
				settings.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s *Settings) bool {
					return s.DiaryID == tt.wantID && s.StaffID == "staff-1"
				})).Return(func(_ context.Context, s *Settings) *Settings { return s }, nil)
			}

			service := NewService(nil, settings, settings, time.UTC)
			service.newID = func() string { return "generated" }

			got, err := service.SaveSettings(ctx, "staff-1", Settings{DiaryColour: "#000"})
			if tt.wantError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.DiaryID)
			settings.AssertExpectations(t)
		})
	}
}
