package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestVectorsAcceptTheirLabels(t *testing.T) {
	before := testutil.ToFloat64(KnowledgeFallbacks.WithLabelValues("symptoms", "KNOWLEDGE_FILE_MISSING"))
	KnowledgeFallbacks.WithLabelValues("symptoms", "KNOWLEDGE_FILE_MISSING").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(KnowledgeFallbacks.WithLabelValues("symptoms", "KNOWLEDGE_FILE_MISSING")))

	KnowledgeEntries.WithLabelValues("topics").Set(6)
	assert.Equal(t, float64(6), testutil.ToFloat64(KnowledgeEntries.WithLabelValues("topics")))

	assert.NotPanics(t, func() {
		WorkerJobsCompleted.WithLabelValues("respond-to-message")
		WorkerJobsFailed.WithLabelValues("respond-to-message", "MESSAGE_PARSE_FAILED")
		WorkerJobDuration.WithLabelValues("respond-to-message").Observe(0.01)
		WorkerJobsActive.WithLabelValues("respond-to-message")
		ResponsesTotal.WithLabelValues("general")
		EmergencySeverity.WithLabelValues("critical")
		SymptomMatches.WithLabelValues("fuzzy")
		KnowledgeReloads.WithLabelValues("ok")
		KnowledgeRecordsRejected.WithLabelValues("symptoms", "dropped")
	})
}
