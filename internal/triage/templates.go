package triage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"medibot/internal/knowledge"
)

const welcomeMessage = "Hello! I'm your medical information assistant. How can I help you today?"

const emergencyMessage = `🚨 **EMERGENCY DETECTED** 🚨

If this is a medical emergency, please:
• Call emergency services immediately (911 in US, 102 in India)
• Go to the nearest emergency room
• Contact your local emergency number

This chatbot cannot provide emergency medical care. Please seek immediate professional medical attention.`

const generalMessage = `I'm a medical information chatbot designed to provide basic health information and symptom guidance.

**I can help with:**
• Symptom information and basic guidance
• General health topics (nutrition, exercise, sleep, etc.)
• When to seek medical care
• Health education and prevention tips

**I cannot:**
• Diagnose medical conditions
• Prescribe medications
• Replace professional medical advice
• Handle medical emergencies

**Please describe your symptoms or ask about a health topic I can help with.**

**In case of emergency, call emergency services immediately!**`

const (
	symptomDisclaimer = "This information is for educational purposes only and does not replace professional medical advice. Always consult a healthcare provider for diagnosis and treatment."
	topicNote         = "**Note:** Consult healthcare providers for personalized advice."
	emptyListBullet   = "Not specified"
)

func formatSymptom(rec knowledge.SymptomRecord) string {
	var b strings.Builder

	// Caser is stateful, so one per call.
	b.WriteString("**Symptom Analysis: ")
	b.WriteString(cases.Title(language.Und).String(rec.Name))
	b.WriteString("**\n\n")

	b.WriteString("**🔍 Possible Causes:**\n")
	writeBullets(&b, rec.PossibleCauses)

	b.WriteString("\n\n**💡 General Advice:**\n")
	b.WriteString(rec.Advice)

	b.WriteString("\n\n**⏱️ Typical Duration:**\n")
	b.WriteString(rec.Duration)

	b.WriteString("\n\n**⚠️ Warning Signs - Seek Medical Care If You Experience:**\n")
	writeBullets(&b, rec.RedFlags)

	b.WriteString("\n\n**👨‍⚕️ When to See a Doctor:**\n")
	b.WriteString(rec.WhenToSeeDoctor)

	b.WriteString("\n\n**📋 Disclaimer:**\n")
	b.WriteString(symptomDisclaimer)
	return b.String()
}

func formatTopic(rec knowledge.TopicRecord) string {
	var b strings.Builder

	b.WriteString("**Health Information:**\n\n")
	b.WriteString(rec.Info)

	if len(rec.Tips) > 0 {
		b.WriteString("\n\n**Tips:**\n")
		writeBullets(&b, rec.Tips)
	}
	if len(rec.Resources) > 0 {
		b.WriteString("\n\n**Resources:**\n")
		writeBullets(&b, rec.Resources)
	}

	b.WriteString("\n\n")
	b.WriteString(topicNote)
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		items = []string{emptyListBullet}
	}
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(item)
	}
}
