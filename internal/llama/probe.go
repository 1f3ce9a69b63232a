package llama

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/amishk599/careerlens/internal/model"
)

// Probe checks reachability of the server by listing its models.
type Probe struct {
	transport Transport
	logger    *slog.Logger
}

// NewProbe creates a probe over transport.
func NewProbe(transport Transport, logger *slog.Logger) *Probe {
	return &Probe{transport: transport, logger: orDiscard(logger)}
}

// Check issues GET /v1/models. It never fails: unreachable servers and non-2xx
// answers are reported as Connected=false with the error message.
func (p *Probe) Check(ctx context.Context) model.ConnectionStatus {
	body, err := p.transport.Get(ctx, modelsPath)
	if err != nil {
		p.logger.Error("llama server unreachable", "error", err)
		return model.ConnectionStatus{Connected: false, Error: err.Error()}
	}

	var list model.ModelList
	if err := json.Unmarshal(body, &list); err != nil {
		// Reachable, but the listing is not in the expected shape.
		p.logger.Debug("unrecognized model listing", "error", err)
		return model.ConnectionStatus{Connected: true}
	}

	p.logger.Debug("llama server reachable", "models", len(list.Data))
	return model.ConnectionStatus{Connected: true, Models: &list}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
