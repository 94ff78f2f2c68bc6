package diaryapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/diary"
	"pm-backoffice/core/forms"
)

const (
	oneOff = `{"id":"e1","staff_id":"s1","event_type":"Callback","date":"2025-03-10","start_time":"09:00:00","end_time":"09:15:00",` +
		`"data":{"startTime":"09:00","endTime":"09:15","contact":"Jane"}}`
	recurringBase = `{"id":"r1","staff_id":"s1","event_type":"Note","date":"2025-03-01","start_time":"08:00:00","end_time":"08:30:00",` +
		`"data":{"startTime":"08:00","endTime":"08:30","noteType":"General","isRecurring":true,"recurrencePattern":"daily"}}`
	occurrence = `{"id":"r1","staff_id":"s1","event_type":"Note","date":"%s","start_time":"08:00:00","end_time":"08:30:00","occurrence":true,` +
		`"data":{"startTime":"08:00","endTime":"08:30","noteType":"General","isRecurring":true,"recurrencePattern":"daily"}}`
)

func newServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(server.URL+"/api/v1/", WithToken("secret-token"), WithTimeout(time.Second))
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_GetEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "found", status: http.StatusOK, body: oneOff},
		{name: "not found", status: http.StatusNotFound, body: `{"message":"event not found","err":["event not found"]}`, wantErr: diary.ErrEventNotFound},
		{name: "bad request", status: http.StatusBadRequest, body: `{"message":"invalid event"}`, wantErr: diary.ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "e1", r.PathValue("id"))
				assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
				write(w, tt.status, tt.body)
			})

			event, err := newServer(t, mux).GetEvent(context.Background(), "e1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.status, statusErr.Code)
				assert.NotEmpty(t, statusErr.Message)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, forms.KindCallback, event.EventType)
			assert.Equal(t, calendar.MustParseClock("09:15"), event.EndTime)
			assert.Equal(t, "Jane", event.Data.(*forms.CallbackData).Contact)
		})
	}
}

func TestClient_ListEventsFoldsOccurrences(t *testing.T) {
	t.Parallel()

	var baseCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/events/diary/{staffId}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.PathValue("staffId"))
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-03-16", r.URL.Query().Get("end_date"))

		write(w, http.StatusOK, "["+oneOff+","+
			fmt.Sprintf(occurrence, "2025-03-10")+","+
			fmt.Sprintf(occurrence, "2025-03-11")+"]")
	})
	mux.HandleFunc("GET /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		baseCalls.Add(1)
		write(w, http.StatusOK, recurringBase)
	})

	events, err := newServer(t, mux).ListEvents(context.Background(), "s1",
		calendar.MustParseDate("2025-03-10"), calendar.MustParseDate("2025-03-16"))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "r1", events[1].ID)
	assert.Equal(t, calendar.MustParseDate("2025-03-01"), events[1].Date)
	assert.False(t, events[1].Occurrence)
	assert.Equal(t, int32(1), baseCalls.Load())
}

func TestClient_CreateEvent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var sent diary.Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		assert.Equal(t, forms.KindCallback, sent.EventType)

		write(w, http.StatusCreated, `{"success":true,"message":"event created","data":`+oneOff+`}`)
	})

	var event diary.Event
	require.NoError(t, json.Unmarshal([]byte(oneOff), &event))

	event.ID = ""

	saved, err := newServer(t, mux).CreateEvent(context.Background(), &event)
	require.NoError(t, err)
	assert.Equal(t, "e1", saved.ID)
}

func TestClient_Failures(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusInternalServerError, `{"success":false,"message":"failed to delete event: db error"}`)
	})
	mux.HandleFunc("GET /api/v1/diary-settings/{staffId}", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusNotFound, `{"message":"diary settings not found"}`)
	})
	mux.HandleFunc("GET /api/v1/staff", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `not json`)
	})

	client := newServer(t, mux)
	ctx := context.Background()

	err := client.DeleteEvent(ctx, "e1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, diary.ErrEventNotFound)
	assert.Contains(t, err.Error(), "db error")

	_, err = client.GetSettings(ctx, "s1")
	require.ErrorIs(t, err, diary.ErrSettingsNotFound)

	_, err = client.ListStaff(ctx)
	require.Error(t, err)
}

func TestClient_Week(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/events/diary/{staffId}/week", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-12", r.URL.Query().Get("date"))

		week := calendar.WeekOf(calendar.MustParseDate("2025-03-12"))

		var event diary.Event
		assert.NoError(t, json.Unmarshal([]byte(oneOff), &event))

		view := diary.WeekView{
			StaffID: "s1",
			Week:    week,
			Events:  []diary.Event{event},
			Grid:    calendar.BuildGrid([]diary.Event{event}, week),
		}

		raw, err := json.Marshal(view)
		assert.NoError(t, err)

		write(w, http.StatusOK, string(raw))
	})

	view, err := newServer(t, mux).Week(context.Background(), "s1", calendar.MustParseDate("2025-03-12"))
	require.NoError(t, err)

	assert.Equal(t, calendar.MustParseDate("2025-03-10"), view.Week.Start)
	require.Len(t, view.Events, 1)
	require.NotEmpty(t, view.Grid.Days)
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/staff", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/api/v1", WithTimeout(50*time.Millisecond))

	_, err := client.ListStaff(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
