package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Action is what the handler does with a failed job.
type Action string

const (
	ActionFail  Action = "fail"  // fail the job and let the broker retry it
	ActionThrow Action = "throw" // throw a BPMN error into the process
)

// ErrorHandler turns handler errors into Camunda fail/throw commands.
type ErrorHandler struct {
	logger Logger
}

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decide normalizes err and picks the action for a job with the given
// remaining retries. The returned retry count is only meaningful for ActionFail.
func (h *ErrorHandler) Decide(err error, jobRetries int32) (Action, *BPMNError, int32) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries > 0 && jobRetries > 0 {
		retries := int32(bpmnErr.Retries)
		if jobRetries < retries {
			retries = jobRetries
		}
		return ActionFail, bpmnErr, retries
	}
	return ActionThrow, bpmnErr, 0
}

// HandleJobError reports err for job and sends the matching command.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	action, bpmnErr, retries := h.Decide(err, job.Retries)
	h.logError(job, AsStandardError(err), bpmnErr, action)

	varsJSON, jerr := json.Marshal(bpmnErr.ToErrorVariables())

	switch action {
	case ActionFail:
		cmd := client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(retries).
			ErrorMessage(bpmnErr.Message)
		if jerr == nil {
			if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
				_, _ = withVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)
	default:
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(bpmnErr.Code).
			ErrorMessage(bpmnErr.Message)
		if jerr == nil {
			if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
				_, _ = withVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)
	}
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, action Action) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"action":           string(action),
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
