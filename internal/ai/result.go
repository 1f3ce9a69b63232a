package ai

// TaskResult is the outcome of one task call. On success Err is nil and Data
// is the interpreted model output. On failure Err says why and Data holds the
// task's fallback, shaped exactly like a success, so callers can always use it.
type TaskResult[T any] struct {
	Data    T
	RawText string // assistant text as received; empty when dispatch failed
	Model   string // model that answered; empty when dispatch failed
	Err     error
}

// OK reports whether the task produced real output rather than its fallback.
func (r TaskResult[T]) OK() bool {
	return r.Err == nil
}

func succeeded[T any](data T, raw, model string) TaskResult[T] {
	return TaskResult[T]{Data: data, RawText: raw, Model: model}
}

func fellBack[T any](fallback T, raw, model string, err error) TaskResult[T] {
	return TaskResult[T]{Data: fallback, RawText: raw, Model: model, Err: err}
}
