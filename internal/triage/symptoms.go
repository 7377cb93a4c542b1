package triage

import (
	"strings"

	"medibot/internal/knowledge"
)

// Analyze finds the symptom record for message. The first table key that
// occurs in the lowercased message wins; failing that, the key closest to the
// whole message is used if its similarity reaches FuzzyCutoff.
func Analyze(snap *knowledge.Snapshot, message string) (*SymptomMatch, bool) {
	if snap == nil {
		return nil, false
	}
	lower := strings.ToLower(message)

	for _, rec := range snap.Symptoms {
		if strings.Contains(lower, rec.Name) {
			return &SymptomMatch{Record: withSymptomDefaults(rec), Method: MatchSubstring, Score: 1}, true
		}
	}

	name, score, ok := closestMatch(lower, snap.SymptomNames(), FuzzyCutoff)
	if !ok {
		return nil, false
	}
	rec, ok := snap.Symptom(name)
	if !ok {
		return nil, false
	}
	return &SymptomMatch{Record: withSymptomDefaults(rec), Method: MatchFuzzy, Score: score}, true
}

// withSymptomDefaults fills the optional fields. Snapshots built by the
// loader are already complete; hand-built ones may not be.
func withSymptomDefaults(rec knowledge.SymptomRecord) knowledge.SymptomRecord {
	if rec.Duration == "" {
		rec.Duration = knowledge.DefaultDuration
	}
	if rec.WhenToSeeDoctor == "" {
		rec.WhenToSeeDoctor = knowledge.DefaultWhenToSeeDoctor
	}
	if rec.Advice == "" {
		rec.Advice = knowledge.DefaultAdvice
	}
	return rec
}
