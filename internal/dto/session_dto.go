package dto

import "encoding/json"

// SessionFrame is the envelope for every websocket frame in both
// directions: {"event": "...", "data": ...}.
type SessionFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutboundFrame mirrors SessionFrame for server-to-client emits, where
// the payload is already a concrete value.
type OutboundFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type ReadyPayload struct {
	ConversationId string `json:"conversation_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PersistChatLogMessage is the payload published after each completed
// exchange; the consumer writes the user row first, then the assistant row.
type PersistChatLogMessage struct {
	StudentId      string `json:"student_id"`
	ConversationId string `json:"conversation_id"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}
