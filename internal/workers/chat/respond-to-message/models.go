// internal/workers/chat/respond-to-message/models.go
package respondtomessage

import (
	"encoding/json"

	"medibot/internal/conversation"
	"medibot/internal/triage"
)

// Input is read from the job variables. Conversation is the log returned by
// the previous job of the same chat, either as {"entries": [...]} or as a
// bare array; absent means a new chat.
type Input struct {
	Message      string                 `json:"message"`
	Context      map[string]interface{} `json:"context"`
	Conversation json.RawMessage        `json:"conversation"`
}

type Output struct {
	Response     triage.Envelope    `json:"response"`
	Conversation conversation.Log   `json:"conversation"`
	Stats        conversation.Stats `json:"stats"`
}
