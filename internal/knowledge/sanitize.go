package knowledge

import "strings"

// Sanitizer actions.
const (
	ActionDropped  = "dropped"
	ActionRepaired = "repaired"
)

// Rejection records an entry the sanitizer dropped or repaired.
type Rejection struct {
	Key    string
	Action string
	Reason string
}

// normalizeKey lowercases and trims a table key.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func sanitizeSymptoms(entries []rawEntry) ([]SymptomRecord, []Rejection) {
	var (
		records    = make([]SymptomRecord, 0, len(entries))
		rejections []Rejection
		seen       = make(map[string]struct{}, len(entries))
	)

	for _, e := range entries {
		key := normalizeKey(e.Key)
		if reason := checkKey(key, seen); reason != "" {
			rejections = append(rejections, Rejection{Key: e.Key, Action: ActionDropped, Reason: reason})
			continue
		}
		if err := validateEntry(symptomSchema, e.Value); err != nil {
			rejections = append(rejections, Rejection{Key: key, Action: ActionDropped, Reason: err.Error()})
			continue
		}

		m, ok := e.Value.(map[string]interface{})
		if !ok {
			rejections = append(rejections, Rejection{Key: key, Action: ActionDropped, Reason: "not an object"})
			continue
		}
		rec := SymptomRecord{
			Name:            key,
			PossibleCauses:  listField(m, "possibleCauses", "possible_causes"),
			Advice:          stringField(m, "advice"),
			RedFlags:        listField(m, "redFlags", "red_flags"),
			Duration:        stringField(m, "duration"),
			WhenToSeeDoctor: stringField(m, "whenToSeeDoctor", "when_to_see_doctor"),
		}

		if rec.Advice == "" && len(rec.PossibleCauses) == 0 {
			rejections = append(rejections, Rejection{Key: key, Action: ActionDropped, Reason: "neither advice nor possible causes"})
			continue
		}
		seen[key] = struct{}{}

		if rec.Advice == "" {
			rec.Advice = DefaultAdvice
			rejections = append(rejections, Rejection{Key: key, Action: ActionRepaired, Reason: "missing advice"})
		}
		if rec.Duration == "" {
			rec.Duration = DefaultDuration
		}
		if rec.WhenToSeeDoctor == "" {
			rec.WhenToSeeDoctor = DefaultWhenToSeeDoctor
		}
		records = append(records, rec)
	}
	return records, rejections
}

func sanitizeTopics(entries []rawEntry) ([]TopicRecord, []Rejection) {
	var (
		records    = make([]TopicRecord, 0, len(entries))
		rejections []Rejection
		seen       = make(map[string]struct{}, len(entries))
	)

	for _, e := range entries {
		key := normalizeKey(e.Key)
		if reason := checkKey(key, seen); reason != "" {
			rejections = append(rejections, Rejection{Key: e.Key, Action: ActionDropped, Reason: reason})
			continue
		}
		if err := validateEntry(topicSchema, e.Value); err != nil {
			rejections = append(rejections, Rejection{Key: key, Action: ActionDropped, Reason: err.Error()})
			continue
		}

		rec := TopicRecord{Name: key, Tips: []string{}, Resources: []string{}}
		switch v := e.Value.(type) {
		case string:
			rec.Info = strings.TrimSpace(v)
		case map[string]interface{}:
			rec.Info = stringField(v, "info")
			rec.Tips = listField(v, "tips")
			rec.Resources = listField(v, "resources")
		}

		if rec.Info == "" {
			rejections = append(rejections, Rejection{Key: key, Action: ActionDropped, Reason: "empty info"})
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}
	return records, rejections
}

func checkKey(key string, seen map[string]struct{}) string {
	if key == "" {
		return "blank key"
	}
	if _, dup := seen[key]; dup {
		return "duplicate key"
	}
	return ""
}

// stringField returns the first present, non-blank string under names, trimmed.
func stringField(m map[string]interface{}, names ...string) string {
	for _, name := range names {
		if s, ok := m[name].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// listField returns the first present list under names with items trimmed and
// blanks removed. The result is never nil.
func listField(m map[string]interface{}, names ...string) []string {
	for _, name := range names {
		raw, ok := m[name].([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return []string{}
}
