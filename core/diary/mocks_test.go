package diary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListEvents(ctx context.Context, staffID string, from, to calendar.Date) ([]Event, error) {
	args := m.Called(ctx, staffID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockStore) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	if fn, ok := args.Get(0).(func(context.Context, *Event) *Event); ok {
		return fn(ctx, event), args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockStore) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	if fn, ok := args.Get(0).(func(context.Context, *Event) *Event); ok {
		return fn(ctx, event), args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockStore) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) GetSettings(ctx context.Context, staffID string) (*Settings, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettings) SaveSettings(ctx context.Context, settings *Settings) (*Settings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	if fn, ok := args.Get(0).(func(context.Context, *Settings) *Settings); ok {
		return fn(ctx, settings), args.Error(1)
	}

	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettings) ListStaff(ctx context.Context) ([]Staff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]Staff), args.Error(1)
}

// echo returns the event the store was handed.
func echo(event *Event) *Event {
	out := *event
	return &out
}

// viewing is a complete viewing payload between start and end.
func viewing(t *testing.T, start, end string) *forms.ViewingData {
	t.Helper()

	d, err := forms.NewEventData(forms.KindViewing)
	require.NoError(t, err)

	v := d.(*forms.ViewingData)
	v.StartTime = start
	v.EndTime = end
	v.Property = "12 High Street"
	v.Staff = []string{"s1"}

	return v
}

func viewingEvent(t *testing.T, id, date, start, end string) Event {
	t.Helper()

	return Event{
		ID:        id,
		StaffID:   "staff-1",
		EventType: forms.KindViewing,
		Date:      calendar.MustParseDate(date),
		StartTime: calendar.MustParseClock(start),
		EndTime:   calendar.MustParseClock(end),
		Title:     "Viewing: 12 High Street",
		Data:      viewing(t, start, end),
		CreatedBy: "staff-1",
	}
}
