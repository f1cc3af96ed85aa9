package cli

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	nats "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/toolmesh/dagcore/internal/cache"
	"github.com/toolmesh/dagcore/internal/checkpoint"
	"github.com/toolmesh/dagcore/internal/config"
	"github.com/toolmesh/dagcore/internal/events"
	"github.com/toolmesh/dagcore/internal/executor"
	"github.com/toolmesh/dagcore/internal/priority"
	"github.com/toolmesh/dagcore/internal/telemetry"
	"github.com/toolmesh/dagcore/internal/threshold"
	"github.com/toolmesh/dagcore/internal/toolexec"
	"github.com/toolmesh/dagcore/internal/trace"
)

// App holds the long-lived collaborators a CLI invocation is built against:
// config, metrics registry, and the executor wired to its configured
// checkpoint/cache backends and a downstream tool server connection.
type App struct {
	Config   config.Config
	Registry *prometheus.Registry
	Executor *executor.Executor

	Traces     trace.Store
	Predictor  priority.Predictor
	Embedder   priority.EmbeddingProvider
	Thresholds *threshold.Manager

	conn     *grpc.ClientConn
	natsConn *nats.Conn
}

// NewApp loads configuration, constructs the Prometheus registry and
// checkpoint/cache backends it describes, dials toolAddr for task
// execution, and assembles an Executor ready to run or resume a workflow.
func NewApp(configPath, toolAddr string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("cli: load config: %w", err)
	}

	reg := telemetry.NewRegistry()

	conn, err := grpc.NewClient(toolAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("cli: dial tool server %s: %w", toolAddr, err)
	}
	toolExecutor := toolexec.NewGRPCExecutor(conn, true)

	checkpointStore, err := buildCheckpointStore(cfg.Checkpoint)
	if err != nil {
		conn.Close()
		return nil, err
	}

	cacheCfg := cache.Config{
		Enabled:    cfg.Cache.Enabled,
		MaxEntries: cfg.Cache.MaxEntries,
		TTLSeconds: cfg.Cache.TTLSeconds,
	}

	var natsConn *nats.Conn
	var extraSink events.Sink
	if cfg.Events.NatsURL != "" {
		natsConn, err = nats.Connect(cfg.Events.NatsURL)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("cli: connect nats %s: %w", cfg.Events.NatsURL, err)
		}
		extraSink = events.NewNatsPublisher(natsConn)
	}

	exec := &executor.Executor{
		Exec:        toolExecutor,
		Cache:       cache.New(cacheCfg, reg),
		Checkpoints: checkpoint.NewManager(checkpointStore, nil),
		ExtraSink:   extraSink,
	}

	thresholdInitial := threshold.Thresholds{
		ExplicitThreshold:   cfg.Threshold.ExplicitThreshold,
		SuggestionThreshold: cfg.Threshold.SuggestionThreshold,
		MinThreshold:        cfg.Threshold.MinThreshold,
		MaxThreshold:        cfg.Threshold.MaxThreshold,
	}

	return &App{
		Config:   cfg,
		Registry: reg,
		Executor: exec,

		// The upstream planner's success-prediction graph is out of scope
		// for this core; these stand in until it is wired in, so scoring
		// degrades to the documented cold-start behavior.
		Traces:     trace.NewMemStore(),
		Predictor:  priority.StubPredictor{Nodes: 0, FixedPrediction: 0.5},
		Embedder:   priority.StubEmbedder{Dimension: 8},
		Thresholds: threshold.New(threshold.Config{WindowSize: cfg.Threshold.WindowSize, Initial: thresholdInitial}, reg),

		conn:     conn,
		natsConn: natsConn,
	}, nil
}

// Close releases the tool server and NATS connections.
func (a *App) Close() error {
	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

func buildCheckpointStore(cfg config.CheckpointConfig) (checkpoint.KVStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return checkpoint.NewMemStore(nil), nil
	case "file":
		return checkpoint.NewFileStore(cfg.BaseDir), nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("cli: open postgres checkpoint store: %w", err)
		}
		return checkpoint.NewPQStore(db), nil
	default:
		return nil, fmt.Errorf("cli: unknown checkpoint backend %q", cfg.Backend)
	}
}
