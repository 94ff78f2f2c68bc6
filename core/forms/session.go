package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pm-backoffice/core/calendar"
)

var (
	ErrInvalidTransition = errors.New("invalid form transition")
	ErrSubmitInFlight    = errors.New("a submission is already in flight")
)

type State string

const (
	StateClosed       State = "closed"
	StateTypeSelected State = "type_selected"
	StateEditing      State = "editing"
	StateSubmitted    State = "submitted"
	StateCancelled    State = "cancelled"
)

// ValidationError lists the required fields a submission is missing.
type ValidationError struct {
	Kind    Kind
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is missing required fields: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// Session is one in-progress event form, opened either on an empty slot or on an existing
// event.
type Session struct {
	ID       string
	StaffID  string
	EventID  string
	Date     calendar.Date
	Slot     calendar.Clock
	State    State
	Data     EventData
	Reverted bool
	Pending  bool
}

// NewSession opens a form on an empty slot. No event type is chosen yet.
func NewSession(id, staffID string, date calendar.Date, slot calendar.Clock) *Session {
	return &Session{ID: id, StaffID: staffID, Date: date, Slot: slot, State: StateClosed}
}

// EditSession opens a form on an existing event.
func EditSession(id, staffID, eventID string, date calendar.Date, data EventData) *Session {
	return &Session{
		ID:      id,
		StaffID: staffID,
		EventID: eventID,
		Date:    date,
		State:   StateEditing,
		Data:    Clone(data),
	}
}

func (s *Session) Kind() Kind {
	if s.Data == nil {
		return ""
	}

	return s.Data.Kind()
}

func (s *Session) open() bool {
	return s.State == StateTypeSelected || s.State == StateEditing
}

func (s *Session) transition(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, s.State)
}

// SelectKind picks the event type. On a fresh form the type's defaults start at the slot;
// while editing, the payload is replaced by the new type's defaults and only the times survive.
func (s *Session) SelectKind(kind Kind) error {
	if s.Pending {
		return ErrSubmitInFlight
	}

	switch s.State {
	case StateClosed:
		d, err := AtSlot(kind, s.Slot)
		if err != nil {
			return err
		}

		s.Data = d
		s.State = StateTypeSelected
	case StateTypeSelected, StateEditing:
		d, err := SwitchKind(s.Data, kind)
		if err != nil {
			return err
		}

		s.Data = d
	default:
		return s.transition("select a type")
	}

	s.Reverted = false

	return nil
}

func (s *Session) edit(op string, fn func(EventData) (EventData, error)) error {
	if s.Pending {
		return ErrSubmitInFlight
	}

	if !s.open() {
		return s.transition(op)
	}

	d, err := fn(s.Data)
	if err != nil {
		return err
	}

	s.Data = d
	s.State = StateEditing

	return nil
}

func (s *Session) SetStartTime(start string) error {
	return s.edit("set the start time", func(d EventData) (EventData, error) {
		out, err := SetStartTime(d, start)
		if err != nil {
			return nil, err
		}

		s.Reverted = false

		return out, nil
	})
}

// SetEndTime sets the end time; Reverted reports whether the edit was rejected.
func (s *Session) SetEndTime(end string) error {
	return s.edit("set the end time", func(d EventData) (EventData, error) {
		out, reverted, err := SetEndTime(d, end)
		if err != nil {
			return nil, err
		}

		s.Reverted = reverted

		return out, nil
	})
}

// ApplyFields merges a partial payload into the form. Reverted follows the same rules as
// SetEndTime.
func (s *Session) ApplyFields(raw []byte) error {
	return s.edit("edit fields", func(d EventData) (EventData, error) {
		out, reverted, err := ApplyFields(d, raw)
		if err != nil {
			return nil, err
		}

		s.Reverted = reverted

		return out, nil
	})
}

// BeginSubmit validates the form and marks a submission in flight. Every successful call must
// be followed by FinishSubmit.
func (s *Session) BeginSubmit() error {
	if s.Pending {
		return ErrSubmitInFlight
	}

	if !s.open() {
		return s.transition("submit")
	}

	missing, err := Missing(s.Data)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return &ValidationError{Kind: s.Data.Kind(), Missing: missing}
	}

	s.Pending = true

	return nil
}

// FinishSubmit clears the in-flight mark; the form is submitted only when err is nil.
func (s *Session) FinishSubmit(err error) {
	s.Pending = false
	if err == nil {
		s.State = StateSubmitted
	}
}

func (s *Session) Cancel() error {
	if s.Pending {
		return ErrSubmitInFlight
	}

	if s.State == StateSubmitted {
		return s.transition("cancel")
	}

	s.State = StateCancelled

	return nil
}

// Close resets a submitted or cancelled form.
func (s *Session) Close() error {
	if s.State != StateSubmitted && s.State != StateCancelled {
		return s.transition("close")
	}

	s.State = StateClosed
	s.Data = nil
	s.EventID = ""
	s.Reverted = false

	return nil
}

type sessionJSON struct {
	ID       string          `json:"id"`
	StaffID  string          `json:"staff_id"`
	EventID  string          `json:"event_id,omitempty"`
	Date     calendar.Date   `json:"date"`
	Slot     calendar.Clock  `json:"slot"`
	State    State           `json:"state"`
	Kind     Kind            `json:"kind,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Reverted bool            `json:"reverted"`
	Pending  bool            `json:"pending"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	out := sessionJSON{
		ID:       s.ID,
		StaffID:  s.StaffID,
		EventID:  s.EventID,
		Date:     s.Date,
		Slot:     s.Slot,
		State:    s.State,
		Kind:     s.Kind(),
		Reverted: s.Reverted,
		Pending:  s.Pending,
	}

	if s.Data != nil {
		data, err := Encode(s.Data)
		if err != nil {
			return nil, err
		}

		out.Data = data
	}

	return json.Marshal(out)
}

func (s *Session) UnmarshalJSON(raw []byte) error {
	var in sessionJSON

	err := json.Unmarshal(raw, &in)
	if err != nil {
		return err
	}

	*s = Session{
		ID:       in.ID,
		StaffID:  in.StaffID,
		EventID:  in.EventID,
		Date:     in.Date,
		Slot:     in.Slot,
		State:    in.State,
		Reverted: in.Reverted,
		Pending:  in.Pending,
	}

	if len(in.Data) > 0 && string(in.Data) != "null" {
		d, err := Decode(in.Data)
		if err != nil {
			return err
		}

		s.Data = d
	}

	return nil
}
