package triage

import (
	"strings"
	"time"

	"medibot/internal/conversation"
	"medibot/internal/knowledge"
)

// SnapshotSource supplies the knowledge snapshot for a request.
// *knowledge.Store satisfies it.
type SnapshotSource interface {
	Snapshot() *knowledge.Snapshot
}

// Contact is an emergency number for a region.
type Contact struct {
	Region string
	Number string
}

var defaultContacts = []Contact{
	{Region: "US", Number: "911"},
	{Region: "India", Number: "102"},
	{Region: "UK", Number: "999"},
	{Region: "Australia", Number: "000"},
	{Region: "EU", Number: "112"},
}

// DefaultContacts returns a copy of the built-in emergency numbers.
func DefaultContacts() []Contact {
	return append([]Contact(nil), defaultContacts...)
}

// Responder runs the pipeline: welcome, emergency, symptom, topic, general.
// It holds no per-request state and is safe for concurrent use.
type Responder struct {
	source   SnapshotSource
	detector *EmergencyDetector
	contacts []Contact
	now      func() time.Time
}

type Option func(*Responder)

// WithDetector replaces the built-in emergency detector.
func WithDetector(d *EmergencyDetector) Option {
	return func(r *Responder) {
		if d != nil {
			r.detector = d
		}
	}
}

// WithContacts replaces the emergency numbers. An empty list keeps the defaults.
func WithContacts(contacts []Contact) Option {
	return func(r *Responder) {
		if len(contacts) > 0 {
			r.contacts = append([]Contact(nil), contacts...)
		}
	}
}

// WithClock sets the clock used to stamp conversation entries.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		if now != nil {
			r.now = now
		}
	}
}

func NewResponder(source SnapshotSource, opts ...Option) *Responder {
	r := &Responder{
		source:   source,
		detector: NewEmergencyDetector(nil, nil),
		contacts: DefaultContacts(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond classifies message and composes the reply. userContext is accepted
// for callers that have one; matching does not use it. Respond always returns
// a complete Result.
func (r *Responder) Respond(message string, userContext map[string]interface{}) *Result {
	if strings.TrimSpace(message) == "" {
		return &Result{
			Message:  welcomeMessage,
			Category: CategoryWelcome,
			Priority: PriorityNormal,
			Metadata: map[string]interface{}{},
		}
	}

	if r.detector.Detect(message) {
		return r.emergency(message)
	}

	// one snapshot for the rest of the request
	snap := r.snapshot()

	if match, ok := Analyze(snap, message); ok {
		return symptomResult(match)
	}
	if topic, ok := Lookup(snap, message); ok {
		return topicResult(*topic)
	}

	return &Result{
		Message:  generalMessage,
		Category: CategoryGeneral,
		Priority: PriorityNormal,
		Metadata: map[string]interface{}{MetaUserInput: message},
	}
}

// Converse answers message and returns log extended with the user's message
// and the reply. The caller's log is not modified.
func (r *Responder) Converse(log conversation.Log, message string) (*Result, conversation.Log) {
	res := r.Respond(message, nil)
	ts := r.now()

	log = log.Append(conversation.NewEntry(conversation.RoleUser, message, "", nil, ts))
	log = log.Append(conversation.NewEntry(conversation.RoleAssistant, res.Message, string(res.Category), res.Metadata, ts))
	return res, log
}

// Detector exposes the active emergency detector.
func (r *Responder) Detector() *EmergencyDetector {
	return r.detector
}

func (r *Responder) snapshot() *knowledge.Snapshot {
	if r.source != nil {
		if snap := r.source.Snapshot(); snap != nil {
			return snap
		}
	}
	return knowledge.DefaultSnapshot()
}

func (r *Responder) emergency(message string) *Result {
	contacts := make(map[string]string, len(r.contacts))
	for _, c := range r.contacts {
		contacts[c.Region] = c.Number
	}
	return &Result{
		Message:  emergencyMessage,
		Category: CategoryEmergency,
		Priority: PriorityUrgent,
		Metadata: map[string]interface{}{
			MetaEmergencyContacts: contacts,
			MetaSeverity:          string(r.detector.SeverityLevel(message)),
		},
	}
}

func symptomResult(m *SymptomMatch) *Result {
	rec := m.Record
	return &Result{
		Message:  formatSymptom(rec),
		Category: CategorySymptomAnalysis,
		Priority: PriorityNormal,
		Metadata: map[string]interface{}{
			MetaSymptom:         rec.Name,
			MetaPossibleCauses:  copyStrings(rec.PossibleCauses),
			MetaAdvice:          rec.Advice,
			MetaRedFlags:        copyStrings(rec.RedFlags),
			MetaDuration:        rec.Duration,
			MetaWhenToSeeDoctor: rec.WhenToSeeDoctor,
			MetaMatchType:       string(m.Method),
			MetaMatchScore:      m.Score,
		},
	}
}

func topicResult(rec knowledge.TopicRecord) *Result {
	return &Result{
		Message:  formatTopic(rec),
		Category: CategoryHealthInfo,
		Priority: PriorityNormal,
		Metadata: map[string]interface{}{
			MetaTopic:     rec.Name,
			MetaInfo:      rec.Info,
			MetaTips:      copyStrings(rec.Tips),
			MetaResources: copyStrings(rec.Resources),
		},
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
