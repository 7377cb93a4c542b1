package triage

import (
	"strings"

	"medibot/internal/knowledge"
)

// Lookup finds the topic record for message.
//
// The first pass accepts a topic when the message contains its key or the key
// contains the whole trimmed message. Only if no topic passes does the second
// pass accept a multi-word key any of whose words occurs in the message.
// Within a pass, table order decides.
func Lookup(snap *knowledge.Snapshot, message string) (*knowledge.TopicRecord, bool) {
	if snap == nil {
		return nil, false
	}
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return nil, false
	}

	for i := range snap.Topics {
		key := snap.Topics[i].Name
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			rec := snap.Topics[i]
			return &rec, true
		}
	}

	for i := range snap.Topics {
		words := strings.Fields(snap.Topics[i].Name)
		if len(words) < 2 {
			continue
		}
		if containsAny(lower, words) {
			rec := snap.Topics[i]
			return &rec, true
		}
	}
	return nil, false
}
