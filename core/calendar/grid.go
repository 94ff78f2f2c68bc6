package calendar

// Cell is one non-empty half-hour slot of a day column.
type Cell[E Scheduled] struct {
	Slot Clock `json:"slot"`
	SlotLayout[E]
}

type Day[E Scheduled] struct {
	Date    Date      `json:"date"`
	Weekday string    `json:"weekday"`
	Cells   []Cell[E] `json:"cells"`
}

type Grid[E Scheduled] struct {
	Week  Week     `json:"week"`
	Slots []Clock  `json:"slots"`
	Days  []Day[E] `json:"days"`
}

var weekdayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// BuildGrid lays out every slot of the week. Slots without active events are omitted.
func BuildGrid[E Scheduled](events []E, week Week) Grid[E] {
	grid := Grid[E]{Week: week, Slots: Slots(), Days: make([]Day[E], 0, DaysPerWeek)}

	for i, date := range week.Dates() {
		day := Day[E]{Date: date, Weekday: weekdayNames[i], Cells: []Cell[E]{}}

		var sameDay []E

		for _, event := range events {
			if event.Interval().Date == date {
				sameDay = append(sameDay, event)
			}
		}

		if len(sameDay) > 0 {
			for _, slot := range grid.Slots {
				layout := LayoutSlot(sameDay, date, slot)
				if len(layout.Placements) == 0 {
					continue
				}

				day.Cells = append(day.Cells, Cell[E]{Slot: slot, SlotLayout: layout})
			}
		}

		grid.Days = append(grid.Days, day)
	}

	return grid
}
