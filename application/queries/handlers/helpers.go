package handlers

import (
	"time"

	"eventbase/domain/events"
)

// filterRecords narrows a stream snapshot by occurrence time range and by an
// event-kind allow-list, preserving append order. Nil bounds and an empty
// allow-list mean "no restriction".
func filterRecords(records []events.Record, from, to *time.Time, kinds []events.EventName) []events.Record {
	if from == nil && to == nil && len(kinds) == 0 {
		return records
	}

	allowed := make(map[events.EventName]struct{}, len(kinds))
	for _, kind := range kinds {
		allowed[kind] = struct{}{}
	}

	filtered := make([]events.Record, 0, len(records))
	for _, record := range records {
		if from != nil && record.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && record.CreatedAt.After(*to) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[record.Name]; !ok {
				continue
			}
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// lastEventAt formats the timestamp of the final record, or "" for an empty
// slice
func lastEventAt(records []events.Record) string {
	if len(records) == 0 {
		return ""
	}
	return records[len(records)-1].CreatedAt.Format(time.RFC3339Nano)
}

// firstEventAt formats the timestamp of the first record, or "" for an empty
// slice
func firstEventAt(records []events.Record) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].CreatedAt.Format(time.RFC3339Nano)
}
