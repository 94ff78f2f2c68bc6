package forms

import (
	"fmt"

	"pm-backoffice/core/calendar"
)

// DefaultEndTime is start plus the default duration of kind, capped at 23:59.
func DefaultEndTime(kind Kind, start string) (string, error) {
	clock, err := calendar.ParseClock(start)
	if err != nil {
		return "", err
	}

	return clock.AddCapped(kind.Duration()).String(), nil
}

// SetStartTime returns a copy of d starting at start, its end time moved to the default end.
func SetStartTime(d EventData, start string) (EventData, error) {
	if absent(d) {
		return nil, ErrInvalidEventData
	}

	clock, err := calendar.ParseClock(start)
	if err != nil {
		return nil, err
	}

	out := d.clone()
	b := out.base()
	b.StartTime = clock.String()
	b.EndTime = clock.AddCapped(out.Kind().Duration()).String()

	return out, nil
}

// SetEndTime returns a copy of d ending at end. An end that is not after the start time is
// rejected: the end reverts to the default end and reverted is true.
func SetEndTime(d EventData, end string) (out EventData, reverted bool, err error) {
	if absent(d) {
		return nil, false, ErrInvalidEventData
	}

	endClock, err := calendar.ParseClock(end)
	if err != nil {
		return nil, false, err
	}

	out = d.clone()
	b := out.base()

	if b.StartTime == "" {
		b.EndTime = endClock.String()
		return out, false, nil
	}

	startClock, err := calendar.ParseClock(b.StartTime)
	if err != nil {
		return nil, false, fmt.Errorf("start time: %w", err)
	}

	if endClock <= startClock {
		b.EndTime = startClock.AddCapped(out.Kind().Duration()).String()
		return out, true, nil
	}

	b.EndTime = endClock.String()

	return out, false, nil
}

// SwitchKind replaces d with the defaults of kind, keeping only the start and end time.
func SwitchKind(d EventData, kind Kind) (EventData, error) {
	next, err := NewEventData(kind)
	if err != nil {
		return nil, err
	}

	if !absent(d) {
		start, end := Times(d)
		b := next.base()
		b.StartTime = start
		b.EndTime = end
	}

	return next, nil
}

// AtSlot returns the defaults of kind starting at slot, ending after the kind's default duration.
func AtSlot(kind Kind, slot calendar.Clock) (EventData, error) {
	d, err := NewEventData(kind)
	if err != nil {
		return nil, err
	}

	b := d.base()
	b.StartTime = slot.String()
	b.EndTime = slot.AddCapped(kind.Duration()).String()

	return d, nil
}

// Interval parses the times of d into an interval on date.
func Interval(d EventData, date calendar.Date) (calendar.Interval, error) {
	if absent(d) {
		return calendar.Interval{}, ErrInvalidEventData
	}

	start, end := Times(d)

	startClock, err := calendar.ParseClock(start)
	if err != nil {
		return calendar.Interval{}, fmt.Errorf("start time: %w", err)
	}

	endClock, err := calendar.ParseClock(end)
	if err != nil {
		return calendar.Interval{}, fmt.Errorf("end time: %w", err)
	}

	return calendar.Interval{Date: date, Start: startClock, End: endClock}, nil
}

// WithTimes returns a copy of d with both times replaced verbatim.
func WithTimes(d EventData, start, end string) EventData {
	out := d.clone()
	b := out.base()
	b.StartTime = start
	b.EndTime = end

	return out
}
