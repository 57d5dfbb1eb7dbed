package events

import (
	"fmt"
	"sort"
)

// changeFormatter renders a payload into human-readable change descriptions
// for one event kind.
type changeFormatter func(payload Payload) []string

// changeFormatters is the dispatch table for timeline rendering. Kinds
// without an entry fall back to a generic "Event: <name>" line.
var changeFormatters = map[EventName]changeFormatter{
	UserCreated: formatUserCreated,
	UserUpdated: formatFieldUpdates,
}

// DescribeChanges renders an event's payload as human-readable change text
// for the timeline view.
func DescribeChanges(name EventName, payload Payload) []string {
	if format, ok := changeFormatters[name]; ok {
		return format(payload)
	}
	return []string{fmt.Sprintf("Event: %s", name)}
}

func formatUserCreated(payload Payload) []string {
	changes := []string{fmt.Sprintf("User created with email: %v", payload["email"])}
	if name, ok := payload["name"]; ok && name != nil {
		changes = append(changes, fmt.Sprintf("Name set to: %v", name))
	}
	if role, ok := payload["role"]; ok && role != nil {
		changes = append(changes, fmt.Sprintf("Role set to: %v", role))
	}
	return changes
}

// formatFieldUpdates lists every non-null, non-id field the event touched.
// Fields are emitted in sorted order so the timeline is stable across runs.
func formatFieldUpdates(payload Payload) []string {
	fields := make([]string, 0, len(payload))
	for field, value := range payload {
		if field == "id" || value == nil {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	changes := make([]string, 0, len(fields))
	for _, field := range fields {
		changes = append(changes, fmt.Sprintf("%s updated to: %v", field, payload[field]))
	}
	return changes
}
