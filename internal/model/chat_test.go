package model

import (
	"errors"
	"testing"
)

func TestCompletionOutcome(t *testing.T) {
	ok := Succeeded(Completion{Content: "hi", Model: "m"})
	if !ok.OK() || ok.Failure != nil || ok.Error() != "" {
		t.Errorf("unexpected success outcome: %+v", ok)
	}

	failed := Failed(&HTTPError{StatusCode: 500, Body: []byte("boom")}, nil)
	if failed.OK() || failed.Completion != nil {
		t.Errorf("unexpected failure outcome: %+v", failed)
	}
	var httpErr *HTTPError
	if !errors.As(failed.Failure.Err, &httpErr) || httpErr.StatusCode != 500 {
		t.Errorf("expected HTTPError, got %v", failed.Failure.Err)
	}
	if failed.Error() == "" {
		t.Error("failure should carry a message")
	}
}

func TestFirstModel(t *testing.T) {
	tests := []struct {
		name   string
		status ConnectionStatus
		want   string
	}{
		{"disconnected", ConnectionStatus{Connected: false, Models: &ModelList{Data: []ModelInfo{{ID: "a"}}}}, ""},
		{"no listing", ConnectionStatus{Connected: true}, ""},
		{"empty listing", ConnectionStatus{Connected: true, Models: &ModelList{}}, ""},
		{"first wins", ConnectionStatus{Connected: true, Models: &ModelList{Data: []ModelInfo{{ID: "a"}, {ID: "b"}}}}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.FirstModel(); got != tt.want {
				t.Errorf("FirstModel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	err := error(&TransportError{Op: "POST", URL: "http://x/v1/chat/completions", Err: base})
	if !errors.Is(err, base) {
		t.Error("TransportError should unwrap to its cause")
	}
	perr := error(&ParseError{Task: "cv_analysis", Err: base})
	if !errors.Is(perr, base) {
		t.Error("ParseError should unwrap to its cause")
	}
}
