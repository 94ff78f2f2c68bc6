package diary

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/teambition/rrule-go"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
)

var shorthand = map[string]string{
	"daily":    "FREQ=DAILY",
	"weekly":   "FREQ=WEEKLY",
	"monthly":  "FREQ=MONTHLY",
	"yearly":   "FREQ=YEARLY",
	"annually": "FREQ=YEARLY",
}

// ParseRecurrence reads a repeat pattern: either an RRULE (with or without the "RRULE:" prefix)
// or one of the words daily, weekly, monthly, yearly.
func ParseRecurrence(pattern string, dtstart time.Time) (*rrule.RRule, error) {
	pattern = strings.TrimSpace(pattern)

	if rule, ok := shorthand[strings.ToLower(pattern)]; ok {
		pattern = rule
	}

	rule, err := rrule.StrToRRule(strings.TrimPrefix(pattern, "RRULE:"))
	if err != nil {
		return nil, err
	}

	rule.DTStart(dtstart)

	return rule, nil
}

// Expand returns the events dated within [from, to], with every recurring event replaced by its
// occurrences in that range. Events carry local wall-clock times in loc.
func Expand(ctx context.Context, events []Event, from, to calendar.Date, loc *time.Location) []Event {
	out := make([]Event, 0, len(events))

	within := func(d calendar.Date) bool { return !d.Before(from) && !d.After(to) }
	after, before := from.In(loc), to.AddDays(1).In(loc).Add(-time.Nanosecond)

	for _, event := range events {
		pattern, recurring := event.Recurrence()
		if !recurring {
			if within(event.Date) {
				out = append(out, event)
			}

			continue
		}

		rule, err := ParseRecurrence(pattern, event.Date.At(event.StartTime, loc))
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("event_id", event.ID).Str("pattern", pattern).Msg("unreadable recurrence, showing the first occurrence only")

			if within(event.Date) {
				out = append(out, event)
			}

			continue
		}

		for _, at := range rule.Between(after, before, true) {
			occurrence := event
			occurrence.Date = calendar.DateOf(at.In(loc))
			occurrence.Data = forms.Clone(event.Data)
			occurrence.Occurrence = occurrence.Date != event.Date

			out = append(out, occurrence)
		}
	}

	return out
}
