package ai

import (
	"errors"
	"testing"

	"github.com/amishk599/careerlens/internal/model"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```  ":   `{"a":1}`,
		"```{\"a\":1}```":         "```{\"a\":1}```",
		"plain text, no fence":    "plain text, no fence",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeJSON_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `not json`, `{"score": "broken"`, ``} {
		_, err := decodeJSON[Evaluation](TaskAnswerEvaluation, raw, nil)
		var parseErr *model.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("decodeJSON(%q) err = %v, want ParseError", raw, err)
			continue
		}
		if parseErr.Task != TaskAnswerEvaluation {
			t.Errorf("Task = %q", parseErr.Task)
		}
	}
}

func TestDecodeJSON_RunsShapeCheck(t *testing.T) {
	_, err := decodeJSON(TaskAnswerEvaluation, `{"score": 0, "feedback": "x"}`, checkEvaluation)
	if err == nil {
		t.Fatal("expected score 0 to fail the shape check")
	}

	eval, err := decodeJSON(TaskAnswerEvaluation, `{"score": 9.5, "feedback": "great"}`, checkEvaluation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Score != 9.5 {
		t.Errorf("Score = %v", eval.Score)
	}
}

func TestPlainText(t *testing.T) {
	got, err := plainText(TaskFollowUp, "\n  Why Go?  \n")
	if err != nil || got != "Why Go?" {
		t.Errorf("plainText = %q, %v", got, err)
	}
	if _, err := plainText(TaskFollowUp, " \t "); err == nil {
		t.Error("expected error for blank text")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 500); got != "short..." {
		t.Errorf("truncateRunes = %q", got)
	}
	if got := truncateRunes("abcdef", 3); got != "abc..." {
		t.Errorf("truncateRunes = %q", got)
	}
}
