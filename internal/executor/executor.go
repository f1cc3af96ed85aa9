package executor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/toolmesh/dagcore/internal/cache"
	"github.com/toolmesh/dagcore/internal/checkpoint"
	"github.com/toolmesh/dagcore/internal/events"
	"github.com/toolmesh/dagcore/internal/graph"
	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/resolver"
	"github.com/toolmesh/dagcore/internal/resultstore"
	"github.com/toolmesh/dagcore/internal/task"
	"github.com/toolmesh/dagcore/internal/toolexec"
)

// Executor is the Parallel DAG Executor (C5): it validates a DAG, computes
// layers, and runs them with strict inter-layer ordering and unbounded
// intra-layer parallelism. When Checkpoints is set it also acts as the
// Controlled Executor (C8), snapshotting WorkflowState after every layer
// that completes without a hard failure.
type Executor struct {
	Exec         toolexec.Executor
	Cache        *cache.Cache
	ToolVersions map[string]string

	// Checkpoints, when non-nil, is used to persist a WorkflowState
	// snapshot after each successful layer and to emit the corresponding
	// checkpoint event. A failing Save is logged nowhere and simply skips
	// the checkpoint event for that layer; it never fails the workflow.
	Checkpoints *checkpoint.Manager

	// ExtraSink, when non-nil, receives every event alongside the stream
	// handle's own channel (e.g. a NatsPublisher broadcasting to external
	// consumers). The channel remains the sole source a Handle.Wait relies
	// on; ExtraSink is fan-out only.
	ExtraSink events.Sink

	// NowFn overrides the wall clock for deterministic tests.
	NowFn func() time.Time
}

func (e *Executor) now() time.Time {
	if e.NowFn != nil {
		return e.NowFn()
	}
	return time.Now()
}

var tracer = otel.Tracer("github.com/toolmesh/dagcore/internal/executor")

// Execute runs dag to completion and returns the terminal report. It is a
// convenience wrapper over ExecuteStream that drains the event channel.
func (e *Executor) Execute(ctx context.Context, dag task.DAG) (ExecutionReport, error) {
	handle, err := e.ExecuteStream(ctx, dag, "")
	if err != nil {
		return ExecutionReport{}, err
	}
	for range handle.Events {
		// drain; Execute does not expose the stream to its caller.
	}
	return handle.Wait()
}

// Handle is returned by ExecuteStream: the live event channel plus a Wait
// method that blocks for the terminal ExecutionReport.
type Handle struct {
	Events <-chan events.Event
	done   chan struct{}
	report ExecutionReport
	status events.WorkflowStatus
}

// Wait blocks until the workflow has finished and returns its report.
func (h *Handle) Wait() (ExecutionReport, error) {
	<-h.done
	return h.report, nil
}

// Status returns the terminal workflow status once Wait has returned;
// before that it is the zero value.
func (h *Handle) Status() events.WorkflowStatus { return h.status }

// ExecuteStream runs dag and streams layer/task/workflow events over the
// returned Handle's channel. Admission errors (cycle, unknown dependency,
// duplicate id, impure task) are returned immediately and no event is ever
// emitted for that call, per the propagation policy.
func (e *Executor) ExecuteStream(ctx context.Context, dag task.DAG, workflowID string) (*Handle, error) {
	return e.executeStream(ctx, dag, workflowID, runOpts{createdAt: e.now().Unix()})
}

// runOpts carries the state that differs between a fresh run and a resumed
// one: seeded results, the layer to resume at, and the conversational state
// a Controlled Executor checkpoint must carry through unchanged.
type runOpts struct {
	seed            []task.TaskResult
	startLayerIndex int
	messages        jsonvalue.Value
	decisions       jsonvalue.Value
	createdAt       int64
}

func (e *Executor) executeStream(ctx context.Context, dag task.DAG, workflowID string, opts runOpts) (*Handle, error) {
	if err := validateAdmission(dag); err != nil {
		return nil, err
	}
	layering, err := graph.Layer(dag)
	if err != nil {
		return nil, err
	}

	chanSink, ch := events.NewChanSink(len(dag.Tasks)*2 + 8)
	h := &Handle{Events: ch, done: make(chan struct{})}

	var sink events.Sink = chanSink
	if e.ExtraSink != nil {
		sink = events.FanOut{chanSink, e.ExtraSink}
	}

	go e.run(ctx, dag, layering, workflowID, chanSink, sink, h, opts)

	return h, nil
}

func (e *Executor) run(ctx context.Context, dag task.DAG, layering graph.Result, workflowID string, chanSink *events.ChanSink, sink events.Sink, h *Handle, opts runOpts) {
	defer chanSink.Close()
	defer close(h.done)

	byID := make(map[string]task.Task, len(dag.Tasks))
	for _, t := range dag.Tasks {
		byID[t.ID] = t
	}

	store := resultstore.New()
	store.Seed(opts.seed)
	start := e.now()

	status := events.WorkflowSuccess

layerLoop:
	for _, layer := range layering.Layers {
		if layer.Index < opts.startLayerIndex {
			continue
		}

		if ctx.Err() != nil {
			status = events.WorkflowCancelled
			break layerLoop
		}

		events.SafeRecord(sink, events.Event{Kind: events.KindLayerStart, WorkflowID: workflowID, LayerIndex: layer.Index, Tasks: layer.Tasks})

		var mu sync.Mutex
		layerFailed := false

		g, gctx := errgroup.WithContext(ctx)
		for _, taskID := range layer.Tasks {
			taskID := taskID
			t := byID[taskID]
			g.Go(func() error {
				result := e.runTask(gctx, t, store)
				store.Put(result)
				events.SafeRecord(sink, events.Event{
					Kind: events.KindTaskComplete, WorkflowID: workflowID,
					LayerIndex: layer.Index, TaskID: result.TaskID, Status: result.Status,
				})
				if result.Status == task.StatusError {
					mu.Lock()
					layerFailed = true
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		events.SafeRecord(sink, events.Event{Kind: events.KindLayerEnd, WorkflowID: workflowID, LayerIndex: layer.Index})

		if layerFailed {
			status = events.WorkflowError
			break layerLoop
		}

		if e.Checkpoints != nil {
			e.checkpointLayer(ctx, workflowID, store, layer.Index, opts, sink)
		}
	}

	if ctx.Err() != nil && status != events.WorkflowCancelled {
		status = events.WorkflowCancelled
	}

	executionTimeMs := e.now().Sub(start).Milliseconds()
	results := store.Snapshot()

	var sequentialEstimateMs int64
	var successCount, failCount int
	var taskErrors []TaskError
	for _, r := range results {
		sequentialEstimateMs += r.ExecutionTimeMs
		switch r.Status {
		case task.StatusSuccess:
			successCount++
		case task.StatusError:
			failCount++
			taskErrors = append(taskErrors, TaskError{TaskID: r.TaskID, Error: r.Error})
		}
	}

	speedup := 1.0
	if executionTimeMs > 0 {
		speedup = float64(sequentialEstimateMs) / float64(executionTimeMs)
	}

	report := ExecutionReport{
		Results:               results,
		SuccessfulTasks:       successCount,
		FailedTasks:           failCount,
		Errors:                taskErrors,
		ParallelizationLayers: len(layering.Layers),
		ExecutionTimeMs:       executionTimeMs,
		Speedup:               speedup,
	}
	events.SafeRecord(sink, events.Event{Kind: events.KindWorkflowEnd, WorkflowID: workflowID, WorkflowStatus: status})

	h.report = report
	h.status = status
}

// runTask resolves dependencies, consults the cache, invokes the tool
// executor (with retry when the executor opts in), and translates the
// outcome into a TaskResult. It never returns an error: every failure mode
// becomes a TaskResult with status "error" or "failed_safe".
func (e *Executor) runTask(ctx context.Context, t task.Task, store *resultstore.Store) task.TaskResult {
	start := e.now()

	deps, err := resolver.Resolve(t.DependsOn, store)
	if err != nil {
		return e.finalize(t, start, task.TaskResult{TaskID: t.ID, Status: task.StatusError, Error: err.Error()})
	}

	if t.Metadata.Pure && t.Metadata.Body != "" && e.Cache != nil {
		key := cache.KeyForTask(t.Metadata.Body, deps, e.ToolVersions)
		if cached, ok := e.Cache.Get(key, e.now()); ok {
			return cached
		}
		result := e.invoke(ctx, t, deps, start)
		if result.Status == task.StatusSuccess {
			e.Cache.Set(key, result, e.ToolVersions, e.now())
		}
		return result
	}

	return e.invoke(ctx, t, deps, start)
}

func (e *Executor) invoke(ctx context.Context, t task.Task, deps map[string]task.TaskResult, start time.Time) task.TaskResult {
	spanCtx, span := tracer.Start(ctx, t.Tool, oteltrace.WithAttributes(attribute.String("task.id", t.ID)))
	defer span.End()

	runCtx := spanCtx
	var cancel context.CancelFunc
	if t.Metadata.TimeoutMs > 0 {
		runCtx, cancel = context.WithTimeout(spanCtx, time.Duration(t.Metadata.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	output, err := toolexec.WithRetry(runCtx, e.Exec, t.Tool, t.Arguments, deps)

	var result task.TaskResult
	switch {
	case err != nil && runCtx.Err() == context.DeadlineExceeded:
		result = task.TaskResult{TaskID: t.ID, Status: task.StatusError, Error: "timeout"}
	case err != nil && t.Metadata.SafeToFail:
		result = task.TaskResult{TaskID: t.ID, Status: task.StatusFailedSafe, Error: err.Error()}
	case err != nil:
		result = task.TaskResult{TaskID: t.ID, Status: task.StatusError, Error: err.Error()}
	default:
		result = task.TaskResult{TaskID: t.ID, Status: task.StatusSuccess, Output: output}
	}

	return e.finalize(t, start, result)
}

func (e *Executor) finalize(t task.Task, start time.Time, result task.TaskResult) task.TaskResult {
	result.ExecutionTimeMs = e.now().Sub(start).Milliseconds()
	return result
}

// checkpointLayer snapshots the current WorkflowState and asks the
// Checkpoint Manager to persist it, emitting a checkpoint event on success.
// A storage failure here is swallowed: losing a checkpoint is recoverable
// (the next layer's checkpoint supersedes it) but must never fail a
// workflow that otherwise completed its layer cleanly.
func (e *Executor) checkpointLayer(ctx context.Context, workflowID string, store *resultstore.Store, layerIndex int, opts runOpts, sink events.Sink) {
	state := task.WorkflowState{
		WorkflowID:   workflowID,
		Tasks:        store.Snapshot(),
		CurrentLayer: layerIndex,
		Messages:     opts.messages,
		Decisions:    opts.decisions,
		CreatedAt:    opts.createdAt,
		ExpiresAt:    opts.createdAt + int64(checkpoint.DefaultTTL.Seconds()),
	}
	checkpointID, err := e.Checkpoints.Save(ctx, state, layerIndex)
	if err != nil {
		return
	}
	events.SafeRecord(sink, events.Event{
		Kind: events.KindCheckpoint, WorkflowID: workflowID,
		LayerIndex: layerIndex, CheckpointID: checkpointID,
	})
}
