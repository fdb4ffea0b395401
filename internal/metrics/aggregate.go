package metrics

import (
	"sort"
	"time"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
)

// UserActionAggregate summarizes one actor's activity within a window.
// Derived on demand, never persisted.
type UserActionAggregate struct {
	ActorUserID      string
	TotalActions     int
	UniqueItems      int
	ActionsBreakdown map[string]int
}

// DailyActionAggregate is one actor's action count on one calendar day.
type DailyActionAggregate struct {
	ActorUserID  string
	Date         string
	TotalActions int
}

// ComputeUserActionMetrics reduces raw event rows into per-actor
// aggregates for the window selected by r at now. The reduction is
// order-independent: the read path guarantees no row ordering, so the
// result depends only on the event set. Actors with no events in the
// window are absent from the output; zero-padding across all known
// actors is a presentation concern.
func ComputeUserActionMetrics(r Range, now time.Time, events []domain.Event) []UserActionAggregate {
	start, end := RangeWindow(r, now)

	byActor := make(map[string]*UserActionAggregate)
	itemsByActor := make(map[string]map[string]struct{})

	for _, event := range events {
		if !inWindow(event.OccurredAt, start, end) {
			continue
		}

		agg, ok := byActor[event.ActorUserID]
		if !ok {
			agg = &UserActionAggregate{
				ActorUserID:      event.ActorUserID,
				ActionsBreakdown: make(map[string]int),
			}
			byActor[event.ActorUserID] = agg
			itemsByActor[event.ActorUserID] = make(map[string]struct{})
		}

		agg.TotalActions++
		agg.ActionsBreakdown[string(event.Action)]++
		itemsByActor[event.ActorUserID][event.EntityID] = struct{}{}
	}

	result := make([]UserActionAggregate, 0, len(byActor))
	for actorID, agg := range byActor {
		agg.UniqueItems = len(itemsByActor[actorID])
		result = append(result, *agg)
	}

	// Deterministic output order so identical inputs yield identical responses.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ActorUserID < result[j].ActorUserID
	})

	return result
}

// ComputeDailyMetrics reduces raw event rows into a per-actor daily
// series for the window. Every enumerated day of the window appears for
// each actor present in the data, with zero counts for idle days.
func ComputeDailyMetrics(r Range, now time.Time, events []domain.Event) []DailyActionAggregate {
	start, end := RangeWindow(r, now)
	days := ListRangeDays(r, now)

	counts := make(map[string]map[string]int)

	for _, event := range events {
		if !inWindow(event.OccurredAt, start, end) {
			continue
		}

		day := event.OccurredAt.UTC().Format(DayFormat)
		if counts[event.ActorUserID] == nil {
			counts[event.ActorUserID] = make(map[string]int)
		}
		counts[event.ActorUserID][day]++
	}

	actors := make([]string, 0, len(counts))
	for actorID := range counts {
		actors = append(actors, actorID)
	}
	sort.Strings(actors)

	result := make([]DailyActionAggregate, 0, len(actors)*len(days))
	for _, day := range days {
		for _, actorID := range actors {
			result = append(result, DailyActionAggregate{
				ActorUserID:  actorID,
				Date:         day,
				TotalActions: counts[actorID][day],
			})
		}
	}

	return result
}

// inWindow reports whether t falls on a day within [start, end], both
// UTC midnights, end inclusive.
func inWindow(t, start, end time.Time) bool {
	t = t.UTC()
	return !t.Before(start) && t.Before(end.AddDate(0, 0, 1))
}
