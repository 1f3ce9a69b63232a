package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/careerlens/internal/model"
)

var (
	shapeValidator *validator.Validate
	shapeOnce      sync.Once
)

func getShapeValidator() *validator.Validate {
	shapeOnce.Do(func() {
		shapeValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return shapeValidator
}

// decodeJSON parses raw model output as a JSON object of type T and checks its
// shape. Local models often wrap JSON in markdown fences, so those are removed
// first. Any failure is a *model.ParseError.
func decodeJSON[T any](task, raw string, check func(T) error) (T, error) {
	var out T

	text := stripCodeFence(raw)
	if !strings.HasPrefix(text, "{") {
		return out, &model.ParseError{Task: task, Err: errors.New("output is not a JSON object")}
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, &model.ParseError{Task: task, Err: err}
	}
	if check != nil {
		if err := check(out); err != nil {
			return out, &model.ParseError{Task: task, Err: err}
		}
	}
	return out, nil
}

// plainText trims raw model output; blank output is a *model.ParseError.
func plainText(task, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &model.ParseError{Task: task, Err: errors.New("empty output")}
	}
	return text, nil
}

// stripCodeFence removes one surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		return s
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func checkCVAnalysis(a CVAnalysis) error {
	if a.empty() {
		return errors.New("no recognized CV analysis keys")
	}
	return nil
}

func checkEvaluation(e Evaluation) error {
	return getShapeValidator().Struct(e)
}

// truncateRunes returns the first n characters of s followed by "...".
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
