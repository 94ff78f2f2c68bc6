package diaryview

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/diary"
)

const gutterWidth = 6

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dayHeaderStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	slotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(gutterWidth)
	eventStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24"))
	occurrenceStyle = eventStyle.Italic(true)
	continueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("24"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle       = statusStyle
)

// Render prints a loaded week without any interactive chrome.
func Render(view *diary.WeekView, width int) string {
	return render(view.StaffID, view.Week, view, nil, false, width)
}

func render(staffID string, week calendar.Week, view *diary.WeekView, err error, loading bool, width int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Diary " + staffID + "  " + label(week.Start) + " to " + label(week.End())))
	b.WriteString("\n")

	switch {
	case loading:
		b.WriteString(statusStyle.Render("loading..."))
	case err != nil:
		b.WriteString(errorStyle.Render("error: " + err.Error()))
	}

	b.WriteString("\n")

	if view != nil {
		b.WriteString(grid(view, columnWidth(width)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/h previous  →/l next  t today  r reload  q quit"))

	return b.String()
}

func label(d calendar.Date) string {
	return d.In(time.UTC).Format("Mon 2 Jan 2006")
}

func columnWidth(width int) int {
	return max(12, (width-gutterWidth)/calendar.DaysPerWeek)
}

func grid(view *diary.WeekView, colWidth int) string {
	cells := make([]map[calendar.Clock]calendar.Cell[diary.Event], len(view.Grid.Days))

	var slots []calendar.Clock

	header := []string{slotStyle.Render("")}

	for i, day := range view.Grid.Days {
		cells[i] = make(map[calendar.Clock]calendar.Cell[diary.Event], len(day.Cells))

		for _, cell := range day.Cells {
			cells[i][cell.Slot] = cell

			if !slices.Contains(slots, cell.Slot) {
				slots = append(slots, cell.Slot)
			}
		}

		heading := day.Weekday + " " + day.Date.In(time.UTC).Format("2 Jan")
		header = append(header, dayHeaderStyle.Width(colWidth).Render(truncate(heading, colWidth)))
	}

	slices.Sort(slots)

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	if len(slots) == 0 {
		rows = append(rows, statusStyle.Render("no events this week"))
	}

	for _, slot := range slots {
		row := []string{slotStyle.Render(slot.String())}

		for i := range view.Grid.Days {
			cell, ok := cells[i][slot]
			if !ok {
				row = append(row, strings.Repeat(" ", colWidth))
				continue
			}

			row = append(row, renderCell(cell, colWidth))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCell splits the column evenly between the slot's layout columns. An event is named
// in its first active slot and drawn as a bar after that.
func renderCell(cell calendar.Cell[diary.Event], colWidth int) string {
	segment := colWidth / cell.TotalColumns
	parts := make([]string, cell.TotalColumns)

	for i := range parts {
		parts[i] = strings.Repeat(" ", segment)
	}

	for _, p := range cell.Placements {
		event := p.Event

		if int(cell.Slot-event.StartTime) >= calendar.SlotMinutes {
			parts[p.Column] = continueStyle.Width(segment).Render(truncate("┆", segment))
			continue
		}

		style := eventStyle
		if event.Occurrence {
			style = occurrenceStyle
		}

		parts[p.Column] = style.Width(segment).Render(truncate(title(event), segment))
	}

	out := strings.Join(parts, "")
	if pad := colWidth - segment*cell.TotalColumns; pad > 0 {
		out += strings.Repeat(" ", pad)
	}

	return out
}

func title(event diary.Event) string {
	if event.Title != "" {
		return event.Title
	}

	return diary.Summary(event.Data)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= 1 {
		return string(runes[:width])
	}

	return string(runes[:width-1]) + "…"
}
