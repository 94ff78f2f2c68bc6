package diary

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//pm-backoffice//diary//EN"

// Calendar renders events as an iCalendar feed. Events carry local wall-clock times in loc;
// the feed holds UTC instants.
func Calendar(name string, events []Event, loc *time.Location) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(name)
	cal.SetTimezoneId(loc.String())

	now := time.Now().UTC()

	for _, event := range events {
		uid := event.ID
		if event.Occurrence {
			uid = event.ID + "-" + event.Date.String()
		}

		ve := cal.AddEvent(uid + "@pm-backoffice")
		ve.SetDtStampTime(now)
		ve.SetStartAt(event.Date.At(event.StartTime, loc).UTC())
		ve.SetEndAt(event.Date.At(event.EndTime, loc).UTC())

		title := event.Title
		if title == "" {
			title = Summary(event.Data)
		}

		ve.SetSummary(title)
		ve.AddProperty(ics.ComponentPropertyCategories, event.EventType.String())

		if event.Description != "" {
			ve.SetDescription(event.Description)
		}

		if !event.CreatedAt.IsZero() {
			ve.SetCreatedTime(event.CreatedAt.UTC())
		}

		if !event.UpdatedAt.IsZero() {
			ve.SetModifiedAt(event.UpdatedAt.UTC())
		}
	}

	return cal.Serialize()
}
