package knowledge

import "time"

// DefaultSymptoms is the built-in symptom table used when the configured
// document is missing, unreadable or empty.
func DefaultSymptoms() []SymptomRecord {
	return []SymptomRecord{
		{
			Name:           "fever",
			PossibleCauses: []string{"Common cold", "Flu", "Infection", "COVID-19"},
			Advice:         "Rest, stay hydrated, monitor temperature. Seek medical care if fever exceeds 103°F or persists.",
			RedFlags: []string{
				"High fever with severe headache",
				"Difficulty breathing",
				"Persistent vomiting",
			},
			Duration:        DefaultDuration,
			WhenToSeeDoctor: DefaultWhenToSeeDoctor,
		},
		{
			Name:           "headache",
			PossibleCauses: []string{"Tension headache", "Migraine", "Sinus infection", "Dehydration"},
			Advice:         "Rest in dark room, stay hydrated, consider over-the-counter pain relief.",
			RedFlags: []string{
				"Sudden severe headache",
				"Headache with fever and stiff neck",
				"Vision changes",
			},
			Duration:        DefaultDuration,
			WhenToSeeDoctor: DefaultWhenToSeeDoctor,
		},
	}
}

// DefaultTopics is the built-in topic table.
func DefaultTopics() []TopicRecord {
	return []TopicRecord{
		{
			Name: "nutrition",
			Info: "Eat a balanced diet with fruits, vegetables, whole grains, lean proteins, and healthy fats. Limit processed foods and sugar.",
			Tips: []string{
				"Include 5+ servings of fruits/vegetables daily",
				"Choose whole grains over refined",
				"Stay hydrated",
			},
			Resources: []string{"https://www.nutrition.gov", "https://www.choosemyplate.gov"},
		},
		{
			Name: "exercise",
			Info: "Adults should aim for at least 150 minutes of moderate aerobic activity weekly, plus strength training twice a week.",
			Tips: []string{
				"Start slowly and gradually increase",
				"Find activities you enjoy",
				"Include both cardio and strength training",
			},
			Resources: []string{"https://www.cdc.gov/physicalactivity", "https://www.acsm.org"},
		},
	}
}

// DefaultSnapshot holds only the built-in tables.
func DefaultSnapshot() *Snapshot {
	s := NewSnapshot(DefaultSymptoms(), DefaultTopics(), time.Now())
	s.Sources[TableSymptoms] = Source{Fallback: true, Entries: len(s.Symptoms)}
	s.Sources[TableTopics] = Source{Fallback: true, Entries: len(s.Topics)}
	return s
}
