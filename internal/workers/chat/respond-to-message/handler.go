// internal/workers/chat/respond-to-message/handler.go
package respondtomessage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "medibot/internal/common/errors"
	"medibot/internal/common/logger"
	"medibot/internal/common/metrics"
	"medibot/internal/common/observability"
	"medibot/internal/conversation"
	"medibot/internal/triage"
)

const (
	TaskType = "respond-to-message"
)

type Handler struct {
	config       *Config
	responder    *triage.Responder
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, responder *triage.Responder, obs *observability.Observability, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		responder:    responder,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, apperrors.NewMessageParseFailedError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, apperrors.NewResponseEncodeFailedError(err), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		h.recordJob(ctx, "send_failed", start)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.recordJob(ctx, "completed", start)
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"category": output.Response.Type,
	})
}

// Execute answers one message. It fails only when the conversation cannot be
// decoded or ctx is already done.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, apperrors.NewMessageParseFailedError(fmt.Errorf("no input"))
	}

	history, err := conversation.ParseLog(input.Conversation)
	if err != nil {
		return nil, apperrors.NewMessageParseFailedError(fmt.Errorf("conversation: %w", err))
	}

	start := time.Now()
	result, history := h.responder.Converse(history, input.Message)
	elapsed := time.Since(start)

	metrics.ResponsesTotal.WithLabelValues(string(result.Category)).Inc()
	switch result.Category {
	case triage.CategoryEmergency:
		if sev, ok := result.Metadata[triage.MetaSeverity].(string); ok {
			metrics.EmergencySeverity.WithLabelValues(sev).Inc()
		}
		h.logger.Warn("emergency message", map[string]interface{}{
			"severity": result.Metadata[triage.MetaSeverity],
		})
	case triage.CategorySymptomAnalysis:
		if method, ok := result.Metadata[triage.MetaMatchType].(string); ok {
			metrics.SymptomMatches.WithLabelValues(method).Inc()
		}
	}
	h.obs.RecordResponse(ctx, string(result.Category), elapsed)

	h.logger.Info("message answered", map[string]interface{}{
		"category":    result.Category,
		"priority":    result.Priority,
		"historySize": history.Len(),
		"hasContext":  len(input.Context) > 0,
		"durationUs":  elapsed.Microseconds(),
	})

	return &Output{
		Response:     result.Envelope(h.now()),
		Conversation: history,
		Stats:        history.Stats(),
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.recordJob(ctx, "failed", start)
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) recordJob(ctx context.Context, status string, start time.Time) {
	d := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(d.Seconds())
	h.obs.RecordJobProcessed(ctx, status)
	h.obs.RecordJobDuration(ctx, d, status)
}
