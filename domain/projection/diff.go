package projection

import (
	"reflect"
	"sort"
)

// FieldChange records one field whose value differs between two states
type FieldChange struct {
	Field string      `json:"field"`
	From  interface{} `json:"from"`
	To    interface{} `json:"to"`
}

// Diff compares two states field by field over the union of their keys and
// returns one change entry per differing field, sorted by field name. A
// field present on only one side diffs against nil. Either state may be nil.
func Diff(before, after State) []FieldChange {
	changes := []FieldChange{}
	if before == nil && after == nil {
		return changes
	}

	keys := make(map[string]struct{}, len(before)+len(after))
	for field := range before {
		keys[field] = struct{}{}
	}
	for field := range after {
		keys[field] = struct{}{}
	}

	fields := make([]string, 0, len(keys))
	for field := range keys {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		from := before[field]
		to := after[field]
		if !reflect.DeepEqual(from, to) {
			changes = append(changes, FieldChange{Field: field, From: from, To: to})
		}
	}
	return changes
}
