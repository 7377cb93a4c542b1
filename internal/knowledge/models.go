// Package knowledge loads the symptom and health-topic tables and serves them
// as immutable snapshots.
package knowledge

import "time"

// Table names, used in logs, metrics and error metadata.
const (
	TableSymptoms = "symptoms"
	TableTopics   = "topics"
)

const (
	DefaultAdvice          = "Consult a healthcare professional."
	DefaultDuration        = "Varies depending on the cause."
	DefaultWhenToSeeDoctor = "Consult a healthcare provider if symptoms persist or worsen."
)

// SymptomRecord is one entry of the symptom table. Name is the lowercased key.
type SymptomRecord struct {
	Name            string   `json:"symptom"`
	PossibleCauses  []string `json:"possibleCauses"`
	Advice          string   `json:"advice"`
	RedFlags        []string `json:"redFlags"`
	Duration        string   `json:"duration"`
	WhenToSeeDoctor string   `json:"whenToSeeDoctor"`
}

// TopicRecord is one entry of the topic table. A bare-string entry in the
// source document becomes Info with empty Tips and Resources.
type TopicRecord struct {
	Name      string   `json:"topic"`
	Info      string   `json:"info"`
	Tips      []string `json:"tips"`
	Resources []string `json:"resources"`
}

// Source describes where a table in a snapshot came from.
type Source struct {
	Path     string `json:"path"`
	Fallback bool   `json:"fallback"`
	Stale    bool   `json:"stale"` // kept from the previous snapshot after a failed reload
	Entries  int    `json:"entries"`
}

// Snapshot is a loaded pair of tables. Slices keep document order, which is
// the iteration order for matching. A Snapshot must not be modified once
// published.
type Snapshot struct {
	Symptoms []SymptomRecord
	Topics   []TopicRecord
	LoadedAt time.Time
	Sources  map[string]Source

	symptomIndex map[string]int
	topicIndex   map[string]int
}

// NewSnapshot builds a snapshot and its name indexes.
func NewSnapshot(symptoms []SymptomRecord, topics []TopicRecord, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Symptoms:     symptoms,
		Topics:       topics,
		LoadedAt:     loadedAt,
		Sources:      make(map[string]Source, 2),
		symptomIndex: make(map[string]int, len(symptoms)),
		topicIndex:   make(map[string]int, len(topics)),
	}
	for i, r := range symptoms {
		s.symptomIndex[r.Name] = i
	}
	for i, r := range topics {
		s.topicIndex[r.Name] = i
	}
	return s
}

// Symptom returns the record stored under name.
func (s *Snapshot) Symptom(name string) (SymptomRecord, bool) {
	i, ok := s.symptomIndex[name]
	if !ok {
		return SymptomRecord{}, false
	}
	return s.Symptoms[i], true
}

// Topic returns the record stored under name.
func (s *Snapshot) Topic(name string) (TopicRecord, bool) {
	i, ok := s.topicIndex[name]
	if !ok {
		return TopicRecord{}, false
	}
	return s.Topics[i], true
}

// SymptomNames returns the symptom keys in table order.
func (s *Snapshot) SymptomNames() []string {
	names := make([]string, len(s.Symptoms))
	for i, r := range s.Symptoms {
		names[i] = r.Name
	}
	return names
}
