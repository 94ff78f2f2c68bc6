package calendar

import "sort"

// Interval places an event on the grid: a date and a half-open [Start, End) time range.
type Interval struct {
	Date  Date
	Start Clock
	End   Clock
}

// Active reports whether the interval covers slot on date.
func (i Interval) Active(date Date, slot Clock) bool {
	return i.Date == date && i.Start <= slot && i.End > slot
}

type Scheduled interface {
	Interval() Interval
}

type Placement[E Scheduled] struct {
	Event  E   `json:"event"`
	Column int `json:"column"`
}

type SlotLayout[E Scheduled] struct {
	Placements   []Placement[E] `json:"placements"`
	TotalColumns int            `json:"total_columns"`
}

// Width is the share of the cell, in percent, each placement gets.
func (l SlotLayout[E]) Width() float64 {
	if l.TotalColumns <= 0 {
		return 100
	}

	return 100 / float64(l.TotalColumns)
}

// Offset is the left offset, in percent, of the given column.
func (l SlotLayout[E]) Offset(column int) float64 {
	return float64(column) * l.Width()
}

// ActiveAt returns the events active in slot on date, in input order.
func ActiveAt[E Scheduled](events []E, date Date, slot Clock) []E {
	var active []E

	for _, event := range events {
		if event.Interval().Active(date, slot) {
			active = append(active, event)
		}
	}

	return active
}

// LayoutSlot selects the events active in slot on date, orders them by start time (ties keep
// input order) and gives each the smallest free column. The input is not modified.
func LayoutSlot[E Scheduled](events []E, date Date, slot Clock) SlotLayout[E] {
	active := ActiveAt(events, date, slot)

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Interval().Start < active[j].Interval().Start
	})

	maxColumn := 0
	taken := make(map[int]bool, len(active))
	placements := make([]Placement[E], 0, len(active))

	for _, event := range active {
		column := 0
		for taken[column] {
			column++
		}

		taken[column] = true
		maxColumn = max(maxColumn, column)

		placements = append(placements, Placement[E]{Event: event, Column: column})
	}

	return SlotLayout[E]{Placements: placements, TotalColumns: maxColumn + 1}
}
