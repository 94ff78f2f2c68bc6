package diary

import (
	"errors"
	"fmt"
	"strings"

	"pm-backoffice/core/forms"
)

var ErrInvalidEvent = errors.New("invalid event")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidEvent}, args...)...)
}

func ValidateEvent(event Event) error {
	if len(strings.TrimSpace(event.StaffID)) == 0 {
		return invalid("staff id is required")
	}

	if event.Date.IsZero() {
		return invalid("date is required")
	}

	if len(strings.TrimSpace(event.Title)) > 100 {
		return invalid("title is too long (100 characters tops)")
	}

	if !event.StartTime.Valid() || !event.EndTime.Valid() {
		return invalid("times must be within the day")
	}

	if event.EndTime <= event.StartTime {
		return invalid("end time must be after start time")
	}

	if event.Data == nil {
		return invalid("event data is required")
	}

	if event.EventType != "" && event.EventType != event.Data.Kind() {
		return invalid("event type %q does not match data of type %q", event.EventType, event.Data.Kind())
	}

	missing, err := forms.Missing(event.Data)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return &forms.ValidationError{Kind: event.Data.Kind(), Missing: missing}
	}

	return nil
}
