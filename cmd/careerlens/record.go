package main

import (
	"encoding/json"
	"log/slog"

	"github.com/amishk599/careerlens/internal/ai"
	"github.com/amishk599/careerlens/internal/model"
)

// recordRun stores res in the history. Failures to record are logged and
// never fail the command.
func recordRun[T any](runs model.RunStore, logger *slog.Logger, task string, res ai.TaskResult[T]) {
	run := model.Run{Task: task, Model: res.Model, OK: res.OK()}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}

	output, err := json.Marshal(res.Data)
	if err != nil {
		logger.Warn("encoding run output failed", "task", task, "error", err)
	} else {
		run.Output = output
	}

	if err := runs.Record(run); err != nil {
		logger.Warn("recording run failed", "task", task, "error", err)
	}
}
