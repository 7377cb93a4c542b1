// internal/workers/chat/respond-to-message/handler_test.go
package respondtomessage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medibot/internal/common/config"
	apperrors "medibot/internal/common/errors"
	"medibot/internal/common/logger"
	"medibot/internal/common/metrics"
	"medibot/internal/conversation"
	"medibot/internal/knowledge"
	"medibot/internal/triage"
)

// ==========================
// Mock Snapshot Source
// ==========================

type MockSnapshotSource struct {
	mock.Mock
}

func (m *MockSnapshotSource) Snapshot() *knowledge.Snapshot {
	args := m.Called()
	snap, _ := args.Get(0).(*knowledge.Snapshot)
	return snap
}

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		MaxJobsActive: 5,
		MaxRetries:    3,
	}
}

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	responder := triage.NewResponder(
		knowledge.NewStaticStore(knowledge.DefaultSnapshot()),
		triage.WithClock(func() time.Time { return fixedNow }),
	)
	h := NewHandler(createTestConfig(), responder, nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Categories(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantType     triage.Category
		wantPriority triage.Priority
	}{
		{"welcome", "", triage.CategoryWelcome, triage.PriorityNormal},
		{"emergency", "my friend is unconscious", triage.CategoryEmergency, triage.PriorityUrgent},
		{"symptom", "I have a fever", triage.CategorySymptomAnalysis, triage.PriorityNormal},
		{"topic", "tell me about exercise", triage.CategoryHealthInfo, triage.PriorityNormal},
		{"general", "asdlkjasdlkj", triage.CategoryGeneral, triage.PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			before := testutil.ToFloat64(metrics.ResponsesTotal.WithLabelValues(string(tt.wantType)))

			out, err := h.Execute(context.Background(), &Input{Message: tt.message})
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, out.Response.Type)
			assert.Equal(t, tt.wantPriority, out.Response.Priority)
			assert.Equal(t, "2024-06-01T09:30:00Z", out.Response.Timestamp)
			assert.Equal(t, 2, out.Conversation.Len())
			assert.Equal(t, 1, out.Stats.User)
			assert.Equal(t, 1, out.Stats.Assistant)
			assert.Equal(t, 1, out.Stats.Categories[string(tt.wantType)])

			after := testutil.ToFloat64(metrics.ResponsesTotal.WithLabelValues(string(tt.wantType)))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestHandler_Execute_EmergencySeverityMetric(t *testing.T) {
	h := createTestHandler(t)
	before := testutil.ToFloat64(metrics.EmergencySeverity.WithLabelValues("critical"))

	out, err := h.Execute(context.Background(), &Input{Message: "cardiac arrest"})
	require.NoError(t, err)

	assert.Equal(t, "critical", out.Response.Metadata[triage.MetaSeverity])
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EmergencySeverity.WithLabelValues("critical")))
}

func TestHandler_Execute_ContinuesConversation(t *testing.T) {
	h := createTestHandler(t)

	first, err := h.Execute(context.Background(), &Input{Message: "I have a fever"})
	require.NoError(t, err)

	// round-trip through job variables
	vars, err := json.Marshal(first)
	require.NoError(t, err)
	var next struct {
		Conversation json.RawMessage `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(vars, &next))

	second, err := h.Execute(context.Background(), &Input{
		Message:      "chest pain",
		Conversation: next.Conversation,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, second.Conversation.Len())
	assert.Equal(t, 4, second.Stats.Total)
	assert.Equal(t, map[string]int{"symptom_analysis": 1, "emergency": 1}, second.Stats.Categories)
	assert.Equal(t, first.Conversation.Entries[0].ID, second.Conversation.Entries[0].ID)
}

func TestHandler_Execute_AcceptsExportedArray(t *testing.T) {
	h := createTestHandler(t)

	log := conversation.Log{}.Append(conversation.NewEntry(conversation.RoleUser, "hi", "", nil, fixedNow))
	exported, err := log.ExportJSON()
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{Message: "fever", Conversation: exported})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Conversation.Len())
}

func TestHandler_Execute_ReadsOneSnapshotPerMessage(t *testing.T) {
	src := new(MockSnapshotSource)
	src.On("Snapshot").Return(knowledge.DefaultSnapshot())

	h := NewHandler(createTestConfig(), triage.NewResponder(src), nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Message: "tell me about nutrition"})
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Snapshot", 1)

	// emergencies are answered before the knowledge tables are consulted
	_, err = h.Execute(context.Background(), &Input{Message: "someone is choking"})
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Snapshot", 1)
}

// ==========================
// Error Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Message: "fever", Conversation: json.RawMessage(`{"entries": 5}`)})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMessageParseFailed))

	_, err = h.Execute(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMessageParseFailed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Execute(ctx, &Input{Message: "fever"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandler_ParseFailureIsThrownNotRetried(t *testing.T) {
	h := createTestHandler(t)

	action, bpmnErr, _ := h.errorHandler.Decide(apperrors.NewMessageParseFailedError(assert.AnError), 3)
	assert.Equal(t, apperrors.ActionThrow, action)
	assert.Equal(t, "MESSAGE_PARSE_FAILED", bpmnErr.Code)
}

// ==========================
// Config Tests
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 8, Timeout: 2000, MaxRetries: 1},
		},
	})
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.MaxJobsActive)
	assert.Equal(t, 1, cfg.MaxRetries)

	def := LoadConfig(&config.Config{})
	assert.Equal(t, 30*time.Second, def.Timeout)
	assert.Equal(t, 5, def.MaxJobsActive)

	assert.Equal(t, 30*time.Second, LoadConfig(nil).Timeout)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	responder := triage.NewResponder(knowledge.NewStaticStore(knowledge.DefaultSnapshot()))
	h := NewHandler(createTestConfig(), responder, nil, logger.NewNoOpLogger())
	input := &Input{Message: "I have a headace"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
