package diaryapi

import (
	"context"
	"net/http"
	"net/url"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/diary"
)

var (
	_ diary.Store          = (*Client)(nil)
	_ diary.SettingsStore  = (*Client)(nil)
	_ diary.StaffDirectory = (*Client)(nil)
)

var eventErrors = errorMapping{
	http.StatusBadRequest: diary.ErrInvalidEvent,
	http.StatusNotFound:   diary.ErrEventNotFound,
}

var settingsErrors = errorMapping{
	http.StatusNotFound: diary.ErrSettingsNotFound,
}

// Week fetches the laid out week containing pivot.
func (c *Client) Week(ctx context.Context, staffID string, pivot calendar.Date) (*diary.WeekView, error) {
	query := url.Values{}
	if !pivot.IsZero() {
		query.Set("date", pivot.String())
	}

	view, err := call[diary.WeekView](ctx, c, http.MethodGet, "/events/diary/"+url.PathEscape(staffID)+"/week", query, nil, eventErrors)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// ListEvents returns the stored events behind the API's listing. The API expands recurring
// events into occurrences; those are folded back into the recurring event they came from.
func (c *Client) ListEvents(ctx context.Context, staffID string, from, to calendar.Date) ([]diary.Event, error) {
	query := url.Values{}
	query.Set("start_date", from.String())
	query.Set("end_date", to.String())

	listed, err := call[[]diary.Event](ctx, c, http.MethodGet, "/events/diary/"+url.PathEscape(staffID)+"/events", query, nil, eventErrors)
	if err != nil {
		return nil, err
	}

	events := make([]diary.Event, 0, len(listed))
	seen := make(map[string]bool)

	for _, event := range listed {
		if _, recurring := event.Recurrence(); !recurring {
			events = append(events, event)
			continue
		}

		if seen[event.ID] {
			continue
		}

		seen[event.ID] = true

		base, err := c.GetEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}

		events = append(events, *base)
	}

	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*diary.Event, error) {
	event, err := call[diary.Event](ctx, c, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, eventErrors)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, event *diary.Event) (*diary.Event, error) {
	result, err := call[envelope[diary.Event]](ctx, c, http.MethodPost, "/events", nil, event, eventErrors)
	if err != nil {
		return nil, err
	}

	return &result.Data, nil
}

func (c *Client) UpdateEvent(ctx context.Context, event *diary.Event) (*diary.Event, error) {
	result, err := call[envelope[diary.Event]](ctx, c, http.MethodPut, "/events/"+url.PathEscape(event.ID), nil, event, eventErrors)
	if err != nil {
		return nil, err
	}

	return &result.Data, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, eventErrors)
	return err
}

func (c *Client) GetSettings(ctx context.Context, staffID string) (*diary.Settings, error) {
	settings, err := call[diary.Settings](ctx, c, http.MethodGet, "/diary-settings/"+url.PathEscape(staffID), nil, nil, settingsErrors)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func (c *Client) SaveSettings(ctx context.Context, settings *diary.Settings) (*diary.Settings, error) {
	result, err := call[envelope[diary.Settings]](ctx, c, http.MethodPut, "/diary-settings/"+url.PathEscape(settings.StaffID), nil, settings, settingsErrors)
	if err != nil {
		return nil, err
	}

	return &result.Data, nil
}

func (c *Client) ListStaff(ctx context.Context) ([]diary.Staff, error) {
	return call[[]diary.Staff](ctx, c, http.MethodGet, "/staff", nil, nil, nil)
}

// Kinds lists the event kinds the API offers with their default durations.
func (c *Client) Kinds(ctx context.Context) ([]diary.KindInfo, error) {
	return call[[]diary.KindInfo](ctx, c, http.MethodGet, "/forms/kinds", nil, nil, nil)
}
