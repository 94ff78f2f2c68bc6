package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	id       string
	interval Interval
}

func (e testEvent) Interval() Interval { return e.interval }

func ev(id, date, start, end string) testEvent {
	return testEvent{id: id, interval: Interval{
		Date:  MustParseDate(date),
		Start: MustParseClock(start),
		End:   MustParseClock(end),
	}}
}

func ids(layout SlotLayout[testEvent]) []string {
	out := make([]string, 0, len(layout.Placements))
	for _, p := range layout.Placements {
		out = append(out, p.Event.id)
	}

	return out
}

func columns(layout SlotLayout[testEvent]) []int {
	out := make([]int, 0, len(layout.Placements))
	for _, p := range layout.Placements {
		out = append(out, p.Column)
	}

	return out
}

func TestLayoutSlot(t *testing.T) {
	t.Parallel()

	date := MustParseDate("2025-01-10")

	tests := []struct {
		name        string
		events      []testEvent
		slot        string
		wantIDs     []string
		wantColumns []int
		wantTotal   int
	}{
		{
			name: "two overlapping viewings",
			events: []testEvent{
				ev("a", "2025-01-10", "09:00", "09:30"),
				ev("b", "2025-01-10", "09:15", "09:45"),
			},
			slot:        "09:15",
			wantIDs:     []string{"a", "b"},
			wantColumns: []int{0, 1},
			wantTotal:   2,
		},
		{
			name: "event ending at slot boundary is not active",
			events: []testEvent{
				ev("a", "2025-01-10", "09:00", "09:30"),
				ev("b", "2025-01-10", "09:30", "10:00"),
			},
			slot:        "09:30",
			wantIDs:     []string{"b"},
			wantColumns: []int{0},
			wantTotal:   1,
		},
		{
			name: "other dates are ignored",
			events: []testEvent{
				ev("a", "2025-01-11", "09:00", "10:00"),
				ev("b", "2025-01-10", "09:00", "10:00"),
			},
			slot:        "09:30",
			wantIDs:     []string{"b"},
			wantColumns: []int{0},
			wantTotal:   1,
		},
		{
			name: "sorted by start time",
			events: []testEvent{
				ev("late", "2025-01-10", "10:00", "12:00"),
				ev("early", "2025-01-10", "08:00", "12:00"),
				ev("mid", "2025-01-10", "09:00", "12:00"),
			},
			slot:        "10:30",
			wantIDs:     []string{"early", "mid", "late"},
			wantColumns: []int{0, 1, 2},
			wantTotal:   3,
		},
		{
			name: "equal start times keep input order",
			events: []testEvent{
				ev("second", "2025-01-10", "09:00", "11:00"),
				ev("first", "2025-01-10", "09:00", "10:00"),
				ev("third", "2025-01-10", "09:00", "09:30"),
			},
			slot:        "09:00",
			wantIDs:     []string{"second", "first", "third"},
			wantColumns: []int{0, 1, 2},
			wantTotal:   3,
		},
		{
			name:        "no events",
			events:      nil,
			slot:        "09:00",
			wantIDs:     []string{},
			wantColumns: []int{},
			wantTotal:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			layout := LayoutSlot(tt.events, date, MustParseClock(tt.slot))

			assert.Equal(t, tt.wantIDs, ids(layout))
			assert.Equal(t, tt.wantColumns, columns(layout))
			assert.Equal(t, tt.wantTotal, layout.TotalColumns)
		})
	}
}

func TestLayoutSlot_Properties(t *testing.T) {
	t.Parallel()

	date := MustParseDate("2025-03-03")

	var events []testEvent

	starts := []string{"08:00", "08:30", "09:00", "09:00", "10:00", "11:30", "13:00"}
	ends := []string{"12:00", "09:30", "09:30", "14:00", "10:30", "12:00", "13:30"}

	for i := range starts {
		events = append(events, ev(string(rune('a'+i)), "2025-03-03", starts[i], ends[i]))
	}

	events = append(events, ev("other-day", "2025-03-04", "08:00", "18:00"))

	for _, slot := range Slots() {
		layout := LayoutSlot(events, date, slot)

		seen := map[int]bool{}
		maxColumn := -1

		for _, p := range layout.Placements {
			require.True(t, p.Event.interval.Active(date, slot), "inactive event %s placed at %s", p.Event.id, slot)
			require.False(t, seen[p.Column], "column %d assigned twice at %s", p.Column, slot)

			seen[p.Column] = true
			maxColumn = max(maxColumn, p.Column)
		}

		for _, e := range events {
			active := e.interval.Date == date && e.interval.Start <= slot && slot < e.interval.End
			found := false

			for _, p := range layout.Placements {
				if p.Event.id == e.id {
					found = true
				}
			}

			assert.Equal(t, active, found, "event %s at %s", e.id, slot)
		}

		if len(layout.Placements) > 0 {
			assert.Equal(t, maxColumn+1, layout.TotalColumns)
		}
	}
}

func TestLayoutSlot_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	events := []testEvent{
		ev("b", "2025-01-10", "09:30", "10:30"),
		ev("a", "2025-01-10", "09:00", "10:30"),
	}

	_ = LayoutSlot(events, MustParseDate("2025-01-10"), MustParseClock("10:00"))

	assert.Equal(t, "b", events[0].id)
	assert.Equal(t, "a", events[1].id)
}

func TestSlotLayout_WidthAndOffset(t *testing.T) {
	t.Parallel()

	layout := SlotLayout[testEvent]{TotalColumns: 4}
	assert.InDelta(t, 25.0, layout.Width(), 0.0001)
	assert.InDelta(t, 50.0, layout.Offset(2), 0.0001)

	empty := SlotLayout[testEvent]{}
	assert.InDelta(t, 100.0, empty.Width(), 0.0001)
}

func TestBuildGrid(t *testing.T) {
	t.Parallel()

	week := WeekOf(MustParseDate("2025-01-10"))
	events := []testEvent{
		ev("a", "2025-01-10", "09:00", "09:30"),
		ev("b", "2025-01-10", "09:00", "10:00"),
		ev("c", "2025-01-06", "23:30", "23:59"),
		ev("outside", "2025-01-13", "09:00", "10:00"),
	}

	grid := BuildGrid(events, week)

	require.Len(t, grid.Days, 7)
	assert.Len(t, grid.Slots, SlotsPerDay)
	assert.Equal(t, MustParseDate("2025-01-06"), grid.Days[0].Date)
	assert.Equal(t, "Mon", grid.Days[0].Weekday)
	assert.Equal(t, "Fri", grid.Days[4].Weekday)

	monday := grid.Days[0]
	require.Len(t, monday.Cells, 1)
	assert.Equal(t, MustParseClock("23:30"), monday.Cells[0].Slot)

	friday := grid.Days[4]
	require.Len(t, friday.Cells, 2)
	assert.Equal(t, MustParseClock("09:00"), friday.Cells[0].Slot)
	assert.Equal(t, 2, friday.Cells[0].TotalColumns)
	assert.Equal(t, MustParseClock("09:30"), friday.Cells[1].Slot)
	assert.Equal(t, 1, friday.Cells[1].TotalColumns)
	assert.Equal(t, "b", friday.Cells[1].Placements[0].Event.id)
	assert.Equal(t, 0, friday.Cells[1].Placements[0].Column)

	for _, day := range grid.Days[5:] {
		assert.Empty(t, day.Cells)
	}
}
