package llama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/careerlens/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// chatResponse mirrors the relevant fields of a /v1/chat/completions answer.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *model.Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Gateway builds completion requests, dispatches them and normalizes the
// answer into a CompletionOutcome.
type Gateway struct {
	transport Transport
	resolver  *ModelResolver
	logger    *slog.Logger
}

// NewGateway creates a gateway. resolver is consulted only when a call names
// no model.
func NewGateway(transport Transport, resolver *ModelResolver, logger *slog.Logger) *Gateway {
	return &Gateway{transport: transport, resolver: resolver, logger: orDiscard(logger)}
}

// Complete sends one non-streaming completion. It never returns an error:
// every failure is folded into the outcome. Without opts.Model it probes the
// server first, so that path costs two sequential round-trips.
func (g *Gateway) Complete(ctx context.Context, messages []model.ChatMessage, opts Options) model.CompletionOutcome {
	req := buildRequest(messages, opts)

	// Model is resolved after validation so a rejected request never reaches the server.
	if err := requestValidator().StructExcept(req, "Model"); err != nil {
		g.logger.Error("rejected completion request", "error", err)
		return model.Failed(&model.RequestError{Err: err}, nil)
	}
	req.Model = g.resolver.Resolve(ctx, opts.Model)

	body, err := g.transport.Post(ctx, completionsPath, req)
	if err != nil {
		g.logger.Error("chat completion failed", "model", req.Model, "error", err)
		return model.Failed(err, errorDetails(err))
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		shapeErr := &model.UpstreamShapeError{Reason: fmt.Sprintf("decode body: %v", err), Body: body}
		g.logger.Error("chat completion failed", "model", req.Model, "error", shapeErr)
		return model.Failed(shapeErr, rawDetails(body))
	}

	if resp.Error != nil {
		shapeErr := &model.UpstreamShapeError{Reason: "server error: " + resp.Error.Message, Body: body}
		g.logger.Error("chat completion failed", "model", req.Model, "error", shapeErr)
		return model.Failed(shapeErr, rawDetails(body))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		shapeErr := &model.UpstreamShapeError{Reason: "missing choices[0].message.content", Body: body}
		g.logger.Error("chat completion failed", "model", req.Model, "error", shapeErr)
		return model.Failed(shapeErr, rawDetails(body))
	}

	g.logger.Debug("chat completion succeeded",
		"model", resp.Model,
		"finish_reason", resp.Choices[0].FinishReason,
	)

	return model.Succeeded(model.Completion{
		Content: *resp.Choices[0].Message.Content,
		Usage:   resp.Usage,
		Model:   resp.Model,
	})
}

func buildRequest(messages []model.ChatMessage, opts Options) model.CompletionRequest {
	req := model.CompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stream:      false,
		TopP:        opts.TopP,
		Stop:        opts.Stop,
		Seed:        opts.Seed,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	return req
}

// errorDetails extracts the upstream payload carried by a transport error.
func errorDetails(err error) json.RawMessage {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return rawDetails(httpErr.Body)
	}
	return nil
}

// rawDetails returns body as-is when it is JSON, or as a JSON string otherwise.
func rawDetails(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}
