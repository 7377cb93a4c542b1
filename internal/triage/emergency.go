package triage

import "strings"

var defaultEmergencyKeywords = []string{
	"chest pain", "heart attack", "stroke", "bleeding heavily", "unconscious",
	"difficulty breathing", "severe allergic reaction", "poisoning",
	"severe burns", "broken bone", "suicide", "overdose", "choking",
	"severe headache", "paralysis", "seizure", "can't breathe",
	"severe pain", "losing consciousness", "anaphylaxis", "cardiac arrest",
	"blood loss", "major trauma", "drug overdose", "alcohol poisoning",
}

var defaultSeverityTiers = map[Severity][]string{
	SeverityCritical: {"unconscious", "not breathing", "cardiac arrest", "overdose"},
	SeverityHigh:     {"chest pain", "stroke", "severe bleeding", "choking"},
	SeverityMedium:   {"difficulty breathing", "severe pain", "allergic reaction"},
}

// tierOrder is the precedence of severity tiers, highest first.
var tierOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium}

// DefaultEmergencyKeywords returns a copy of the built-in keyword set.
func DefaultEmergencyKeywords() []string {
	return append([]string(nil), defaultEmergencyKeywords...)
}

// DefaultSeverityTiers returns a copy of the built-in severity tiers.
func DefaultSeverityTiers() map[Severity][]string {
	out := make(map[Severity][]string, len(defaultSeverityTiers))
	for k, v := range defaultSeverityTiers {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// EmergencyDetector matches messages against emergency phrases by plain
// substring containment. There is no word-boundary check: "choking" also
// matches "unchoking".
type EmergencyDetector struct {
	keywords []string
	tiers    map[Severity][]string
}

// NewEmergencyDetector builds a detector. An empty keywords list keeps the
// built-in set; tiers missing from the map keep their built-in phrases.
// Phrases are trimmed and lowercased and blanks dropped.
func NewEmergencyDetector(keywords []string, tiers map[Severity][]string) *EmergencyDetector {
	d := &EmergencyDetector{
		keywords: normalizePhrases(keywords),
		tiers:    make(map[Severity][]string, len(tierOrder)),
	}
	if len(d.keywords) == 0 {
		d.keywords = DefaultEmergencyKeywords()
	}
	for _, sev := range tierOrder {
		phrases := normalizePhrases(tiers[sev])
		if len(phrases) == 0 {
			phrases = append([]string(nil), defaultSeverityTiers[sev]...)
		}
		d.tiers[sev] = phrases
	}
	return d
}

// Detect reports whether any emergency keyword occurs in message.
func (d *EmergencyDetector) Detect(message string) bool {
	return containsAny(strings.ToLower(message), d.keywords)
}

// SeverityLevel returns the highest tier with a phrase in message, or low.
func (d *EmergencyDetector) SeverityLevel(message string) Severity {
	lower := strings.ToLower(message)
	for _, sev := range tierOrder {
		if containsAny(lower, d.tiers[sev]) {
			return sev
		}
	}
	return SeverityLow
}

// Keywords returns a copy of the active keyword set.
func (d *EmergencyDetector) Keywords() []string {
	return append([]string(nil), d.keywords...)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func normalizePhrases(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
