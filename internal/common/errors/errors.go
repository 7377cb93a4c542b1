// Package errors provides the standardized error taxonomy used by the knowledge
// loader and the Camunda job handlers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Knowledge table errors never reach end users: the loader recovers from them
// by substituting built-in tables.
const (
	ErrCodeKnowledgeFileMissing   ErrorCode = "KNOWLEDGE_FILE_MISSING"
	ErrCodeKnowledgeParseFailed   ErrorCode = "KNOWLEDGE_PARSE_FAILED"
	ErrCodeKnowledgeRecordInvalid ErrorCode = "KNOWLEDGE_RECORD_INVALID"
	ErrCodeKnowledgeWatchFailed   ErrorCode = "KNOWLEDGE_WATCH_FAILED"

	ErrCodeMessageParseFailed   ErrorCode = "MESSAGE_PARSE_FAILED"
	ErrCodeResponseEncodeFailed ErrorCode = "RESPONSE_ENCODE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewKnowledgeFileMissingError reports a knowledge table document that does not exist.
func NewKnowledgeFileMissingError(table, path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeFileMissing,
		Message:   fmt.Sprintf("Knowledge table '%s' not found", table),
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"table": table, "path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewKnowledgeParseFailedError reports a knowledge document that could not be decoded.
func NewKnowledgeParseFailedError(table, path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeParseFailed,
		Message:   fmt.Sprintf("Knowledge table '%s' could not be parsed", table),
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"table": table, "path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewKnowledgeRecordInvalidError reports a single entry rejected by the sanitizer.
func NewKnowledgeRecordInvalidError(table, key, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeRecordInvalid,
		Message:   fmt.Sprintf("Invalid entry '%s' in knowledge table '%s'", key, table),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"table": table, "key": key},
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeWatchFailedError reports a failure to watch knowledge files for changes.
func NewKnowledgeWatchFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeWatchFailed,
		Message:   "Knowledge file watch failed",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMessageParseFailedError reports job variables that are not a valid message request.
func NewMessageParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageParseFailed,
		Message:   "Message request could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResponseEncodeFailedError reports a response that could not be encoded as job variables.
func NewResponseEncodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseEncodeFailed,
		Message:   "Response could not be encoded",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeKnowledgeFileMissing:   "KNOWLEDGE_FILE_MISSING",
	ErrCodeKnowledgeParseFailed:   "KNOWLEDGE_PARSE_FAILED",
	ErrCodeKnowledgeRecordInvalid: "KNOWLEDGE_RECORD_INVALID",
	ErrCodeKnowledgeWatchFailed:   "KNOWLEDGE_WATCH_FAILED",
	ErrCodeMessageParseFailed:     "MESSAGE_PARSE_FAILED",
	ErrCodeResponseEncodeFailed:   "RESPONSE_ENCODE_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeResponseEncodeFailed:
		return 2
	case ErrCodeKnowledgeWatchFailed:
		return 1
	default:
		return 0 // input and data errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "KNOWLEDGE"):
		return "KNOWLEDGE"
	case strings.HasPrefix(codeStr, "MESSAGE") || strings.HasPrefix(codeStr, "RESPONSE"):
		return "MESSAGING"
	default:
		return "OTHER"
	}
}
