package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	SlotMinutes   = 30
	SlotsPerDay   = MinutesPerDay / SlotMinutes
)

// EndOfDay is the latest representable time of day.
const EndOfDay Clock = MinutesPerDay - 1

var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a wall-clock time of day with minute granularity, counted in minutes since midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock accepts HH:MM and HH:MM:SS. Seconds are truncated.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 || !digit(part[0]) || !digit(part[1]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}

		values[i] = int(part[0]-'0')*10 + int(part[1]-'0')
	}

	if values[0] > 23 || values[1] > 59 || (len(values) == 3 && values[2] > 59) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return NewClock(values[0], values[1]), nil
}

func digit(b byte) bool {
	return b >= '0' && b <= '9'
}

func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}

	return c
}

func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) Valid() bool {
	return c >= 0 && c <= EndOfDay
}

// AddCapped adds d and caps the result at EndOfDay.
func (c Clock) AddCapped(d time.Duration) Clock {
	next := c + Clock(d/time.Minute)
	if next > EndOfDay {
		return EndOfDay
	}

	if next < 0 {
		return 0
	}

	return next
}

func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

// String formats as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Long formats as HH:MM:SS, the shape the diary API stores.
func (c Clock) Long() string {
	return c.String() + ":00"
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.Long()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// Slots returns the 48 half-hour slots of a day.
func Slots() []Clock {
	slots := make([]Clock, SlotsPerDay)
	for i := range slots {
		slots[i] = Clock(i * SlotMinutes)
	}

	return slots
}

// SlotIndex returns the index of the slot containing c.
func SlotIndex(c Clock) int {
	return int(c) / SlotMinutes
}
