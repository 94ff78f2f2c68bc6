package calendar

import "time"

const DaysPerWeek = 7

// Week is the Monday-start, seven day window the diary displays.
type Week struct {
	Start Date `json:"start"`
}

// WeekOf returns the week containing pivot.
func WeekOf(pivot Date) Week {
	offset := (int(pivot.Weekday()) + 6) % DaysPerWeek // Monday = 0
	return Week{Start: pivot.AddDays(-offset)}
}

func (w Week) Dates() []Date {
	dates := make([]Date, DaysPerWeek)
	for i := range dates {
		dates[i] = w.Start.AddDays(i)
	}

	return dates
}

func (w Week) End() Date {
	return w.Start.AddDays(DaysPerWeek - 1)
}

func (w Week) Next() Week {
	return Week{Start: w.Start.AddDays(DaysPerWeek)}
}

func (w Week) Previous() Week {
	return Week{Start: w.Start.AddDays(-DaysPerWeek)}
}

func (w Week) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End())
}

// Range returns the window as [start, end) instants in loc.
func (w Week) Range(loc *time.Location) (time.Time, time.Time) {
	return w.Start.In(loc), w.Start.AddDays(DaysPerWeek).In(loc)
}

// ToUTC converts a local wall-clock date and time into the UTC date and time the diary API stores.
func ToUTC(loc *time.Location, date Date, clock Clock) (Date, Clock) {
	t := date.At(clock, loc).UTC()
	return DateOf(t), ClockOf(t)
}

// FromUTC reverses ToUTC.
func FromUTC(loc *time.Location, date Date, clock Clock) (Date, Clock) {
	t := date.At(clock, time.UTC).In(loc)
	return DateOf(t), ClockOf(t)
}
