package forms

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsupportedKind  = errors.New("unsupported event type")
	ErrInvalidEventData = errors.New("invalid event data")
)

// Kind is the event type tag of the diary.
type Kind string

const (
	KindAppointment   Kind = "Appointment"
	KindInspection    Kind = "Inspection"
	KindMaintenance   Kind = "Maintenance"
	KindNote          Kind = "Note"
	KindCallback      Kind = "Callback"
	KindPublicHoliday Kind = "Public Holiday"
	KindSickLeave     Kind = "Sick Leave"
	KindStaffHoliday  Kind = "Staff Holiday"
	KindStaffMeeting  Kind = "Staff Meeting"
	KindTraining      Kind = "Training"
	KindValuation     Kind = "Valuation"
	KindViewing       Kind = "Viewing"
)

// Kinds lists every event type in the order the type picker shows them.
var Kinds = []Kind{
	KindAppointment,
	KindInspection,
	KindMaintenance,
	KindNote,
	KindCallback,
	KindPublicHoliday,
	KindSickLeave,
	KindStaffHoliday,
	KindStaffMeeting,
	KindTraining,
	KindValuation,
	KindViewing,
}

const DefaultDuration = 30 * time.Minute

var durations = map[Kind]time.Duration{
	KindViewing:     30 * time.Minute,
	KindAppointment: 60 * time.Minute,
	KindTraining:    180 * time.Minute,
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}

	return k, nil
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}

	return false
}

// Duration is the length a new event of this kind gets when its start time is picked.
func (k Kind) Duration() time.Duration {
	if d, ok := durations[k]; ok {
		return d
	}

	return DefaultDuration
}

func (k Kind) String() string {
	return string(k)
}
