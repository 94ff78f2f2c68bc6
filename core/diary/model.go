package diary

import (
	"encoding/json"
	"errors"
	"time"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrSettingsNotFound = errors.New("diary settings not found")
	ErrSessionNotFound  = errors.New("form session not found")
)

// Event is one diary entry. Date and times are wall-clock values in the diary's time zone,
// except inside a Store where they are UTC.
type Event struct {
	ID          string          `json:"id,omitempty"`
	StaffID     string          `json:"staff_id"`
	EventType   forms.Kind      `json:"event_type"`
	Date        calendar.Date   `json:"date"`
	StartTime   calendar.Clock  `json:"start_time"`
	EndTime     calendar.Clock  `json:"end_time"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Data        forms.EventData `json:"-"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitzero"`
	UpdatedAt   time.Time       `json:"updated_at,omitzero"`

	// Occurrence is set on the copies produced by expanding a recurring event.
	Occurrence bool `json:"occurrence,omitempty"`
}

func (e Event) Interval() calendar.Interval {
	return calendar.Interval{Date: e.Date, Start: e.StartTime, End: e.EndTime}
}

// Recurrence returns the repeat pattern of the event payload, if it has one.
func (e Event) Recurrence() (string, bool) {
	r, ok := e.Data.(forms.Recurring)
	if !ok {
		return "", false
	}

	return r.Repeats()
}

type eventJSON Event

type wireEvent struct {
	eventJSON
	Data json.RawMessage `json:"data,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := wireEvent{eventJSON: eventJSON(e)}

	if e.Data != nil {
		data, err := forms.Encode(e.Data)
		if err != nil {
			return nil, err
		}

		out.Data = data
		out.EventType = e.Data.Kind()
	}

	return json.Marshal(out)
}

func (e *Event) UnmarshalJSON(raw []byte) error {
	var in wireEvent

	err := json.Unmarshal(raw, &in)
	if err != nil {
		return err
	}

	*e = Event(in.eventJSON)

	if len(in.Data) == 0 || string(in.Data) == "null" {
		return nil
	}

	if e.EventType == "" {
		e.Data, err = forms.Decode(in.Data)
	} else {
		e.Data, err = forms.DecodeAs(e.EventType, in.Data)
	}

	if err != nil {
		return err
	}

	e.EventType = e.Data.Kind()

	return nil
}

type Settings struct {
	DiaryID       string    `json:"diary_id,omitempty"`
	StaffID       string    `json:"staff_id"`
	DiaryColour   string    `json:"diary_colour"`
	PopupNotifyOn bool      `json:"popup_notifi_en"`
	EmailNotifyOn bool      `json:"email_notifi_en"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

type Staff struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	MobPhone string `json:"mob_phone,omitempty"`
	AccLevel string `json:"acc_level,omitempty"`
	Status   string `json:"status,omitempty"`
}

// WeekView is a loaded diary week with its overlap layout.
type WeekView struct {
	StaffID  string               `json:"staff_id"`
	Week     calendar.Week        `json:"week"`
	Events   []Event              `json:"events"`
	Grid     calendar.Grid[Event] `json:"grid"`
	Settings *Settings            `json:"settings,omitempty"`
}
