package executor

import "github.com/toolmesh/dagcore/internal/task"

// TaskError is one entry of ExecutionReport.Errors.
type TaskError struct {
	TaskID string `json:"taskId"`
	Error  string `json:"error"`
}

// ExecutionReport is the terminal outcome of an execute call.
type ExecutionReport struct {
	Results               []task.TaskResult `json:"results"`
	SuccessfulTasks       int               `json:"successfulTasks"`
	FailedTasks           int               `json:"failedTasks"`
	Errors                []TaskError       `json:"errors"`
	ParallelizationLayers int               `json:"parallelizationLayers"`
	ExecutionTimeMs       int64             `json:"executionTimeMs"`
	Speedup               float64           `json:"speedup"`
}
