package llama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/amishk599/careerlens/internal/model"
)

// fakeTransport records the last POST body and answers with a canned response.
type fakeTransport struct {
	getBody  []byte
	getErr   error
	postBody []byte
	postErr  error

	gets  int
	posts int
	sent  model.CompletionRequest
}

func (f *fakeTransport) Get(_ context.Context, _ string) ([]byte, error) {
	f.gets++
	return f.getBody, f.getErr
}

func (f *fakeTransport) Post(_ context.Context, _ string, body any) ([]byte, error) {
	f.posts++
	f.sent = body.(model.CompletionRequest)
	return f.postBody, f.postErr
}

const okCompletion = `{
	"model": "served-model",
	"choices": [{"message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6}
}`

func newTestGateway(ft *fakeTransport) *Gateway {
	return NewGateway(ft, NewModelResolver(NewProbe(ft, nil), "", nil), nil)
}

var oneMessage = []model.ChatMessage{model.User("hi")}

func TestComplete_Success(t *testing.T) {
	ft := &fakeTransport{postBody: []byte(okCompletion)}
	out := newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})

	if !out.OK() {
		t.Fatalf("expected success, got %v", out.Error())
	}
	if out.Failure != nil {
		t.Error("Failure must be nil on success")
	}
	want := model.Completion{
		Content: "hello",
		Model:   "served-model",
		Usage:   &model.Usage{PromptTokens: 5, CompletionTokens: 1, TotalTokens: 6},
	}
	if diff := cmp.Diff(want, *out.Completion); diff != "" {
		t.Errorf("completion mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete_DefaultSampling(t *testing.T) {
	ft := &fakeTransport{postBody: []byte(okCompletion)}
	newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})

	if ft.sent.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", ft.sent.Temperature)
	}
	if ft.sent.MaxTokens != 1000 {
		t.Errorf("max_tokens = %d, want 1000", ft.sent.MaxTokens)
	}
	if ft.sent.Stream {
		t.Error("stream must be false")
	}
}

func TestComplete_ExplicitOverridesWin(t *testing.T) {
	ft := &fakeTransport{postBody: []byte(okCompletion)}
	opts := Options{Model: "m", Temperature: Float(0), MaxTokens: Int(42), TopP: Float(0.9), Seed: Int(7)}
	newTestGateway(ft).Complete(context.Background(), oneMessage, opts)

	if ft.sent.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0", ft.sent.Temperature)
	}
	if ft.sent.MaxTokens != 42 {
		t.Errorf("max_tokens = %d, want 42", ft.sent.MaxTokens)
	}
	if ft.sent.TopP == nil || *ft.sent.TopP != 0.9 {
		t.Errorf("top_p = %v", ft.sent.TopP)
	}
	if ft.sent.Seed == nil || *ft.sent.Seed != 7 {
		t.Errorf("seed = %v", ft.sent.Seed)
	}
}

func TestComplete_ResolvesModelFromProbe(t *testing.T) {
	ft := &fakeTransport{
		getBody:  []byte(`{"data":[{"id":"loaded-model"}]}`),
		postBody: []byte(okCompletion),
	}
	newTestGateway(ft).Complete(context.Background(), oneMessage, Options{})

	if ft.sent.Model != "loaded-model" {
		t.Errorf("model = %q, want loaded-model", ft.sent.Model)
	}
	if ft.gets != 1 || ft.posts != 1 {
		t.Errorf("round-trips: gets=%d posts=%d, want 1 and 1", ft.gets, ft.posts)
	}
}

func TestComplete_FallbackModelWhenProbeFails(t *testing.T) {
	ft := &fakeTransport{getErr: errors.New("connection refused"), postBody: []byte(okCompletion)}
	newTestGateway(ft).Complete(context.Background(), oneMessage, Options{})

	if ft.sent.Model != DefaultFallbackModel {
		t.Errorf("model = %q, want %q", ft.sent.Model, DefaultFallbackModel)
	}
}

func TestComplete_ExplicitModelNeverProbes(t *testing.T) {
	ft := &fakeTransport{postBody: []byte(okCompletion)}
	newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "pinned"})

	if ft.gets != 0 {
		t.Errorf("probe ran %d times, want 0", ft.gets)
	}
	if ft.sent.Model != "pinned" {
		t.Errorf("model = %q", ft.sent.Model)
	}
}

func TestComplete_TransportErrorIsFailure(t *testing.T) {
	ft := &fakeTransport{postErr: &model.TransportError{Op: "POST", URL: "x", Err: errors.New("timeout")}}
	out := newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})

	if out.OK() || out.Completion != nil {
		t.Fatal("expected failure")
	}
	var transportErr *model.TransportError
	if !errors.As(out.Failure.Err, &transportErr) {
		t.Errorf("Err = %v, want TransportError", out.Failure.Err)
	}
	if out.Failure.Details != nil {
		t.Errorf("Details = %s, want nil", out.Failure.Details)
	}
}

func TestComplete_HTTPErrorCarriesDetails(t *testing.T) {
	ft := &fakeTransport{postErr: &model.HTTPError{StatusCode: 400, Body: []byte(`{"error":"No models loaded"}`)}}
	out := newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})

	if out.OK() {
		t.Fatal("expected failure")
	}
	if string(out.Failure.Details) != `{"error":"No models loaded"}` {
		t.Errorf("Details = %s", out.Failure.Details)
	}
}

func TestComplete_MalformedBodyIsFailure(t *testing.T) {
	ft := &fakeTransport{postBody: []byte(`<html>oops</html>`)}
	out := newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})

	if out.OK() {
		t.Fatal("expected failure")
	}
	var shapeErr *model.UpstreamShapeError
	if !errors.As(out.Failure.Err, &shapeErr) {
		t.Errorf("Err = %v, want UpstreamShapeError", out.Failure.Err)
	}
	var details string
	if err := json.Unmarshal(out.Failure.Details, &details); err != nil || details != "<html>oops</html>" {
		t.Errorf("Details = %s", out.Failure.Details)
	}
}

func TestComplete_MissingChoicesIsFailure(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"model":"m","choices":[]}`,
		"no content":    `{"model":"m","choices":[{"message":{"role":"assistant"}}]}`,
		"error payload": `{"error":{"message":"context length exceeded","type":"invalid_request_error"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			ft := &fakeTransport{postBody: []byte(body)}
			out := newTestGateway(ft).Complete(context.Background(), oneMessage, Options{Model: "m"})
			if out.OK() {
				t.Fatal("expected failure")
			}
			var shapeErr *model.UpstreamShapeError
			if !errors.As(out.Failure.Err, &shapeErr) {
				t.Errorf("Err = %v, want UpstreamShapeError", out.Failure.Err)
			}
			if out.Failure.Details == nil {
				t.Error("expected raw body in Details")
			}
		})
	}
}

func TestComplete_InvalidOptionsNeverDispatch(t *testing.T) {
	cases := map[string]struct {
		messages []model.ChatMessage
		opts     Options
	}{
		"no messages":        {nil, Options{Model: "m"}},
		"temperature > 2":    {oneMessage, Options{Model: "m", Temperature: Float(2.5)}},
		"zero max tokens":    {oneMessage, Options{Model: "m", MaxTokens: Int(0)}},
		"unknown role":       {[]model.ChatMessage{{Role: "tool", Content: "x"}}, Options{Model: "m"}},
		"top_p out of range": {oneMessage, Options{Model: "m", TopP: Float(1.5)}},

		// Without a model the server would be asked for one first.
		"no messages, no model":     {nil, Options{}},
		"temperature > 2, no model": {oneMessage, Options{Temperature: Float(2.5)}},
		"zero max tokens, no model": {oneMessage, Options{MaxTokens: Int(0)}},
		"unknown role, no model":    {[]model.ChatMessage{{Role: "tool", Content: "x"}}, Options{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ft := &fakeTransport{postBody: []byte(okCompletion)}
			out := newTestGateway(ft).Complete(context.Background(), tc.messages, tc.opts)
			if out.OK() {
				t.Fatal("expected failure")
			}
			var reqErr *model.RequestError
			if !errors.As(out.Failure.Err, &reqErr) {
				t.Errorf("Err = %v, want RequestError", out.Failure.Err)
			}
			if ft.posts != 0 || ft.gets != 0 {
				t.Errorf("made %d POST and %d GET requests, want none", ft.posts, ft.gets)
			}
		})
	}
}

func TestComplete_AgainstHTTPServer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(okCompletion))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	gw := NewGateway(client, NewModelResolver(NewProbe(client, nil), "", nil), nil)
	out := gw.Complete(context.Background(), oneMessage, Options{Model: "m"})
	if !out.OK() {
		t.Fatalf("expected success, got %v", out.Error())
	}

	if got["stream"] != false {
		t.Errorf("stream = %v", got["stream"])
	}
	if _, ok := got["top_p"]; ok {
		t.Error("unset top_p must be omitted")
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", got["messages"])
	}
}

func TestOptionsMerge(t *testing.T) {
	base := Sampling(0.3, 1500)
	merged := base.Merge(Options{MaxTokens: Int(10), Model: "x"})

	if *merged.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", *merged.Temperature)
	}
	if *merged.MaxTokens != 10 {
		t.Errorf("max_tokens = %v, want 10", *merged.MaxTokens)
	}
	if merged.Model != "x" {
		t.Errorf("model = %q", merged.Model)
	}
	if *base.MaxTokens != 1500 {
		t.Error("Merge must not mutate the receiver's pointees")
	}
}
