package ai

import (
	"context"

	"github.com/amishk599/careerlens/internal/llama"
	"github.com/amishk599/careerlens/internal/model"
)

// Completer sends one chat completion and never fails outright; errors come
// back inside the outcome. *llama.Gateway implements it.
type Completer interface {
	Complete(ctx context.Context, messages []model.ChatMessage, opts llama.Options) model.CompletionOutcome
}
