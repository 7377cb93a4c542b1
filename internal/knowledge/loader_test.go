package knowledge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/common/logger"
)

// ==========================
// Helpers
// ==========================

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(t *testing.T, symptomsPath, topicsPath string) *Loader {
	t.Helper()
	l := NewLoader(symptomsPath, topicsPath, logger.NewTestLogger(t))
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

const symptomsJSON = `{
  "Sore Throat": {
    "possibleCauses": ["Viral infection", "Strep throat"],
    "advice": "Gargle with warm salt water.",
    "redFlags": ["Difficulty swallowing"],
    "duration": "3-7 days"
  },
  "fever": {
    "possibleCauses": ["Flu", "Infection"],
    "advice": "Rest and stay hydrated.",
    "redFlags": ["Fever above 103F"]
  },
  "cough": {
    "possible_causes": ["Cold"],
    "advice": "Drink warm fluids.",
    "red_flags": ["Coughing blood"],
    "when_to_see_doctor": "After three weeks."
  }
}`

const topicsYAML = `
sleep hygiene:
  info: Keep a regular sleep schedule.
  tips:
    - Avoid screens before bed
    - "  "
  resources:
    - https://www.sleepfoundation.org
hydration: Drink water throughout the day.
nutrition:
  info: Eat a balanced diet.
`

// ==========================
// Loading
// ==========================

func TestLoader_Load_JSONSymptomsKeepDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	sym := writeFile(t, dir, "symptoms.json", symptomsJSON)
	top := writeFile(t, dir, "topics.yaml", topicsYAML)

	snap := newTestLoader(t, sym, top).Load(nil)

	assert.Equal(t, []string{"sore throat", "fever", "cough"}, snap.SymptomNames())
	assert.False(t, snap.Sources[TableSymptoms].Fallback)
	assert.Equal(t, 3, snap.Sources[TableSymptoms].Entries)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), snap.LoadedAt)

	rec, ok := snap.Symptom("sore throat")
	require.True(t, ok)
	assert.Equal(t, "3-7 days", rec.Duration)
	assert.Equal(t, DefaultWhenToSeeDoctor, rec.WhenToSeeDoctor)

	rec, ok = snap.Symptom("fever")
	require.True(t, ok)
	assert.Equal(t, DefaultDuration, rec.Duration)
}

func TestLoader_Load_AcceptsSnakeCaseFields(t *testing.T) {
	dir := t.TempDir()
	sym := writeFile(t, dir, "symptoms.json", symptomsJSON)

	snap := newTestLoader(t, sym, "").Load(nil)

	rec, ok := snap.Symptom("cough")
	require.True(t, ok)
	assert.Equal(t, []string{"Cold"}, rec.PossibleCauses)
	assert.Equal(t, []string{"Coughing blood"}, rec.RedFlags)
	assert.Equal(t, "After three weeks.", rec.WhenToSeeDoctor)
}

func TestLoader_Load_YAMLTopicsNormalizeBothShapes(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, dir, "topics.yml", topicsYAML)

	snap := newTestLoader(t, "", top).Load(nil)

	require.Len(t, snap.Topics, 3)
	assert.Equal(t, "sleep hygiene", snap.Topics[0].Name)
	assert.Equal(t, []string{"Avoid screens before bed"}, snap.Topics[0].Tips)
	assert.Equal(t, []string{"https://www.sleepfoundation.org"}, snap.Topics[0].Resources)

	hydration, ok := snap.Topic("hydration")
	require.True(t, ok)
	assert.Equal(t, "Drink water throughout the day.", hydration.Info)
	assert.NotNil(t, hydration.Tips)
	assert.Empty(t, hydration.Tips)
	assert.Empty(t, hydration.Resources)

	nutrition, ok := snap.Topic("nutrition")
	require.True(t, ok)
	assert.Empty(t, nutrition.Tips)
}

func TestLoader_Load_JSONTopics(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, dir, "topics.json", `{"stress": "Take breaks.", "sleep": {"info": "Sleep 7-9 hours.", "tips": ["Dark room"]}}`)

	snap := newTestLoader(t, "", top).Load(nil)

	require.Len(t, snap.Topics, 2)
	assert.Equal(t, "stress", snap.Topics[0].Name)
	assert.Equal(t, "Take breaks.", snap.Topics[0].Info)
	assert.Equal(t, []string{"Dark room"}, snap.Topics[1].Tips)
}

// ==========================
// Fallback
// ==========================

func TestLoader_Load_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string // file content; "" means the file is absent
		topics   string
		wantSym  bool // symptoms fall back
		wantTop  bool
	}{
		{name: "both files missing", wantSym: true, wantTop: true},
		{name: "corrupt symptom json", symptoms: `{"fever": [`, topics: topicsYAML, wantSym: true},
		{name: "symptom document is a list", symptoms: `["fever"]`, topics: topicsYAML, wantSym: true},
		{name: "trailing garbage", symptoms: `{"fever": {"advice": "Rest."}} {}`, topics: topicsYAML, wantSym: true},
		{name: "corrupt topic yaml", symptoms: symptomsJSON, topics: "nutrition: [unclosed", wantTop: true},
		{name: "topic document is a scalar", symptoms: symptomsJSON, topics: "just text", wantTop: true},
		{name: "every entry invalid", symptoms: `{"fever": "hot", "cough": {}}`, topics: topicsYAML, wantSym: true},
		{name: "empty yaml document", symptoms: symptomsJSON, topics: "", wantTop: true},
		{name: "both valid", symptoms: symptomsJSON, topics: topicsYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			sym := filepath.Join(dir, "symptoms.json")
			top := filepath.Join(dir, "topics.yaml")
			if tt.symptoms != "" {
				writeFile(t, dir, "symptoms.json", tt.symptoms)
			}
			if tt.topics != "" || !tt.wantSym {
				writeFile(t, dir, "topics.yaml", tt.topics)
			}

			snap := newTestLoader(t, sym, top).Load(nil)

			assert.Equal(t, tt.wantSym, snap.Sources[TableSymptoms].Fallback)
			assert.Equal(t, tt.wantTop, snap.Sources[TableTopics].Fallback)
			if tt.wantSym {
				assert.Equal(t, []string{"fever", "headache"}, snap.SymptomNames())
			}
			if tt.wantTop {
				_, ok := snap.Topic("nutrition")
				assert.True(t, ok)
				_, ok = snap.Topic("exercise")
				assert.True(t, ok)
			}
		})
	}
}

func TestLoader_Load_KeepsPreviousTableWhenReloadFails(t *testing.T) {
	dir := t.TempDir()
	sym := writeFile(t, dir, "symptoms.json", symptomsJSON)
	top := writeFile(t, dir, "topics.yaml", topicsYAML)
	l := newTestLoader(t, sym, top)

	first := l.Load(nil)
	require.False(t, first.Sources[TableSymptoms].Fallback)

	writeFile(t, dir, "symptoms.json", `{broken`)
	second := l.Load(first)

	assert.Equal(t, first.SymptomNames(), second.SymptomNames())
	assert.True(t, second.Sources[TableSymptoms].Stale)
	assert.False(t, second.Sources[TableSymptoms].Fallback)
	assert.False(t, second.Sources[TableTopics].Stale)
}

func TestLoader_Load_DefaultsWhenPreviousWasFallback(t *testing.T) {
	l := newTestLoader(t, filepath.Join(t.TempDir(), "missing.json"), "")

	first := l.Load(nil)
	second := l.Load(first)

	assert.True(t, second.Sources[TableSymptoms].Fallback)
	assert.False(t, second.Sources[TableSymptoms].Stale)
	assert.Equal(t, []string{"fever", "headache"}, second.SymptomNames())
}

// ==========================
// Sanitizing
// ==========================

func TestSanitizeSymptoms(t *testing.T) {
	entries := []rawEntry{
		{Key: "  Fever ", Value: map[string]interface{}{
			"possibleCauses": []interface{}{" Flu ", "", "Cold"},
			"redFlags":       []interface{}{"High fever"},
		}},
		{Key: "FEVER", Value: map[string]interface{}{"advice": "Second definition."}},
		{Key: "   ", Value: map[string]interface{}{"advice": "No key."}},
		{Key: "rash", Value: "itchy"},
		{Key: "nausea", Value: map[string]interface{}{"redFlags": []interface{}{"Vomiting blood"}}},
		{Key: "fatigue", Value: map[string]interface{}{"advice": "Sleep.", "possibleCauses": "not a list"}},
		{Key: "dizziness", Value: nil},
		{Key: "back pain", Value: map[string]interface{}{"advice": " Stretch. "}},
	}

	records, rejections := sanitizeSymptoms(entries)

	require.Len(t, records, 2)
	assert.Equal(t, "fever", records[0].Name)
	assert.Equal(t, []string{"Flu", "Cold"}, records[0].PossibleCauses)
	assert.Equal(t, DefaultAdvice, records[0].Advice)
	assert.Equal(t, "back pain", records[1].Name)
	assert.Equal(t, "Stretch.", records[1].Advice)
	assert.NotNil(t, records[1].PossibleCauses)
	assert.Empty(t, records[1].RedFlags)

	actions := map[string]string{}
	for _, r := range rejections {
		actions[r.Key] = r.Action
	}
	assert.Equal(t, ActionRepaired, actions["fever"])
	assert.Equal(t, ActionDropped, actions["FEVER"])
	assert.Equal(t, ActionDropped, actions["   "])
	assert.Equal(t, ActionDropped, actions["rash"])
	assert.Equal(t, ActionDropped, actions["nausea"])
	assert.Equal(t, ActionDropped, actions["fatigue"])
	assert.Equal(t, ActionDropped, actions["dizziness"])
	assert.NotContains(t, actions, "back pain")
}

func TestSanitizeSymptoms_DuplicateKeepsFirst(t *testing.T) {
	records, rejections := sanitizeSymptoms([]rawEntry{
		{Key: "Cough", Value: map[string]interface{}{"advice": "first"}},
		{Key: "cough", Value: map[string]interface{}{"advice": "second"}},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Advice)
	require.Len(t, rejections, 1)
	assert.Equal(t, "duplicate key", rejections[0].Reason)
}

func TestSanitizeTopics(t *testing.T) {
	records, rejections := sanitizeTopics([]rawEntry{
		{Key: "Sleep", Value: "  Sleep well.  "},
		{Key: "empty", Value: "   "},
		{Key: "no info", Value: map[string]interface{}{"tips": []interface{}{"x"}}},
		{Key: "numbers", Value: 42.0},
		{Key: "stress", Value: map[string]interface{}{"info": "Relax.", "resources": []interface{}{"https://example.org"}}},
	})

	require.Len(t, records, 2)
	assert.Equal(t, TopicRecord{Name: "sleep", Info: "Sleep well.", Tips: []string{}, Resources: []string{}}, records[0])
	assert.Equal(t, []string{"https://example.org"}, records[1].Resources)
	assert.Len(t, rejections, 3)
}

// ==========================
// Decoding
// ==========================

func TestDecodeDocument_FormatByExtension(t *testing.T) {
	yamlEntries, err := decodeDocument("topics.YAML", []byte("b: x\na: y\n"))
	require.NoError(t, err)
	assert.Equal(t, []rawEntry{{Key: "b", Value: "x"}, {Key: "a", Value: "y"}}, yamlEntries)

	jsonEntries, err := decodeDocument("topics.txt", []byte(`{"b": "x", "a": "y"}`))
	require.NoError(t, err)
	assert.Equal(t, []rawEntry{{Key: "b", Value: "x"}, {Key: "a", Value: "y"}}, jsonEntries)

	_, err = decodeDocument("topics.json", []byte("b: x"))
	assert.Error(t, err)
}

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()

	assert.True(t, snap.Sources[TableSymptoms].Fallback)
	fever, ok := snap.Symptom("fever")
	require.True(t, ok)
	assert.Contains(t, fever.PossibleCauses, "Flu")

	nutrition, ok := snap.Topic("nutrition")
	require.True(t, ok)
	assert.Contains(t, nutrition.Info, "balanced diet")

	_, ok = snap.Symptom("unknown")
	assert.False(t, ok)
}
