// Package triage classifies a free-text message and composes the reply:
// emergency alert, symptom guidance, health-topic information or a general
// fallback. Every function here is pure given a knowledge snapshot.
package triage

import (
	"bytes"
	"encoding/json"
	"time"

	"medibot/internal/knowledge"
)

// Category is the single classification of a response.
type Category string

const (
	CategoryWelcome         Category = "welcome"
	CategoryEmergency       Category = "emergency"
	CategorySymptomAnalysis Category = "symptom_analysis"
	CategoryHealthInfo      Category = "health_info"
	CategoryGeneral         Category = "general"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// Severity grades an emergency message.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// MatchMethod says which pass of the symptom analyzer found a record.
type MatchMethod string

const (
	MatchSubstring MatchMethod = "substring"
	MatchFuzzy     MatchMethod = "fuzzy"
)

// Metadata keys.
const (
	MetaEmergencyContacts = "emergencyContacts"
	MetaSeverity          = "severity"
	MetaSymptom           = "symptom"
	MetaPossibleCauses    = "possibleCauses"
	MetaAdvice            = "advice"
	MetaRedFlags          = "redFlags"
	MetaDuration          = "duration"
	MetaWhenToSeeDoctor   = "whenToSeeDoctor"
	MetaMatchType         = "matchType"
	MetaMatchScore        = "matchScore"
	MetaTopic             = "topic"
	MetaInfo              = "info"
	MetaTips              = "tips"
	MetaResources         = "resources"
	MetaUserInput         = "userInput"
)

// Result is the output of the pipeline. The caller owns it; nothing in it
// aliases the knowledge snapshot.
type Result struct {
	Message  string                 `json:"message"`
	Category Category               `json:"type"`
	Priority Priority               `json:"priority"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SymptomMatch is a symptom record found by Analyze.
type SymptomMatch struct {
	Record knowledge.SymptomRecord
	Method MatchMethod
	Score  float64 // 1 for substring hits, the similarity ratio for fuzzy hits
}

// Envelope is the API shape of a Result.
type Envelope struct {
	Message   string                 `json:"message"`
	Type      Category               `json:"type"`
	Priority  Priority               `json:"priority"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Envelope stamps the result with ts (RFC 3339, UTC).
func (r *Result) Envelope(ts time.Time) Envelope {
	meta := r.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return Envelope{
		Message:   r.Message,
		Type:      r.Category,
		Priority:  r.Priority,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Metadata:  meta,
	}
}

// JSON renders the result as indented JSON without HTML escaping.
func (r *Result) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
