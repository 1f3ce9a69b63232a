package llama

import (
	"context"
	"log/slog"

	"github.com/amishk599/careerlens/internal/model"
)

// DefaultFallbackModel is requested when the caller names no model and the
// server advertises none.
const DefaultFallbackModel = "meta-llama-3.1-8b-instruct"

// StatusChecker reports server connectivity. *Probe implements it.
type StatusChecker interface {
	Check(ctx context.Context) model.ConnectionStatus
}

// ModelResolver decides which model id to request.
type ModelResolver struct {
	checker  StatusChecker
	fallback string
	logger   *slog.Logger
}

// NewModelResolver creates a resolver. An empty fallback means DefaultFallbackModel.
func NewModelResolver(checker StatusChecker, fallback string, logger *slog.Logger) *ModelResolver {
	if fallback == "" {
		fallback = DefaultFallbackModel
	}
	return &ModelResolver{checker: checker, fallback: fallback, logger: orDiscard(logger)}
}

// Resolve returns explicit unchanged when set, without contacting the server.
// Otherwise it probes and picks the first advertised model, falling back to
// the fixed id when the probe fails or lists nothing.
func (r *ModelResolver) Resolve(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}

	if id := r.checker.Check(ctx).FirstModel(); id != "" {
		r.logger.Debug("resolved model from server", "model", id)
		return id
	}

	r.logger.Debug("no model advertised, using fallback", "model", r.fallback)
	return r.fallback
}
