package model

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn passed to the model. An ordered slice of them
// forms the conversation for one completion.
type ChatMessage struct {
	Role    Role   `json:"role" validate:"oneof=system user assistant"`
	Content string `json:"content"`
}

// System returns a system message.
func System(content string) ChatMessage { return ChatMessage{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) ChatMessage { return ChatMessage{Role: RoleUser, Content: content} }

// CompletionRequest mirrors the /v1/chat/completions request body.
type CompletionRequest struct {
	Model       string        `json:"model" validate:"required"`
	Messages    []ChatMessage `json:"messages" validate:"min=1,dive"`
	Temperature float64       `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens" validate:"gt=0"`
	Stream      bool          `json:"stream"`
	TopP        *float64      `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	Stop        []string      `json:"stop,omitempty"`
	Seed        *int          `json:"seed,omitempty"`
}

// Usage is the token accounting reported by the server.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

// Completion is the successful half of a CompletionOutcome.
type Completion struct {
	Content string
	Usage   *Usage // nil when the server omits usage
	Model   string
}

// Failure is the failed half of a CompletionOutcome. Details carries the raw
// upstream payload when one was received.
type Failure struct {
	Err     error
	Details json.RawMessage
}

// CompletionOutcome holds exactly one of Completion or Failure.
type CompletionOutcome struct {
	Completion *Completion
	Failure    *Failure
}

// Succeeded builds a successful outcome.
func Succeeded(c Completion) CompletionOutcome {
	return CompletionOutcome{Completion: &c}
}

// Failed builds a failed outcome. details may be nil.
func Failed(err error, details json.RawMessage) CompletionOutcome {
	return CompletionOutcome{Failure: &Failure{Err: err, Details: details}}
}

// OK reports whether the outcome is a success.
func (o CompletionOutcome) OK() bool {
	return o.Completion != nil
}

// Error returns the failure message, or "" on success.
func (o CompletionOutcome) Error() string {
	if o.Failure == nil || o.Failure.Err == nil {
		return ""
	}
	return o.Failure.Err.Error()
}

// ModelInfo is one entry of the /v1/models listing.
type ModelInfo struct {
	ID      string `json:"id" yaml:"id"`
	Object  string `json:"object,omitempty" yaml:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty" yaml:"owned_by,omitempty"`
}

// ModelList is the /v1/models response body.
type ModelList struct {
	Object string      `json:"object" yaml:"object"`
	Data   []ModelInfo `json:"data" yaml:"data"`
}

// ConnectionStatus is the result of probing the model listing endpoint.
type ConnectionStatus struct {
	Connected bool       `json:"connected" yaml:"connected"`
	Models    *ModelList `json:"models,omitempty" yaml:"models,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// FirstModel returns the first advertised model id, or "" when none is known.
func (s ConnectionStatus) FirstModel() string {
	if !s.Connected || s.Models == nil || len(s.Models.Data) == 0 {
		return ""
	}
	return s.Models.Data[0].ID
}
