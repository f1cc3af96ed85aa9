package toolexec

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rs/zerolog/log"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

// invokeMethod is the fully-qualified gRPC method the downstream tool
// server must expose. Request and response are both google.protobuf.Struct
// so this bridge needs no generated stubs for the tool-argument schema,
// which the core treats as opaque anyway.
const invokeMethod = "/toolmesh.tool.v1.ToolService/Invoke"

// GRPCExecutor bridges Task Executor invocations to a downstream tool
// server over gRPC, the "heterogeneous set of downstream tool servers" the
// core sits in front of. It implements Retryable so callers can opt into
// backoff/v4 retries for this executor specifically.
type GRPCExecutor struct {
	conn         *grpc.ClientConn
	retryEnabled bool
}

// NewGRPCExecutor wraps an already-dialed connection. The caller owns the
// connection's lifecycle (dial options, TLS, keepalive).
func NewGRPCExecutor(conn *grpc.ClientConn, retryEnabled bool) *GRPCExecutor {
	return &GRPCExecutor{conn: conn, retryEnabled: retryEnabled}
}

// Retryable reports whether the backoff/v4 retry policy should wrap calls
// to this executor; network calls to a remote tool server are the case
// that policy exists for.
func (g *GRPCExecutor) Retryable() bool { return g.retryEnabled }

// Run marshals (tool, args, deps) into a protobuf Struct request, invokes
// the downstream tool server, and decodes its Struct response back into a
// jsonvalue.Value under the "output" field.
func (g *GRPCExecutor) Run(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error) {
	req, err := buildRequest(tool, args, deps)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Msg("toolexec: build grpc request failed")
		return jsonvalue.Value{}, fmt.Errorf("toolexec: build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := g.conn.Invoke(ctx, invokeMethod, req, resp); err != nil {
		log.Error().Err(err).Str("tool", tool).Str("method", invokeMethod).Msg("toolexec: grpc invoke failed")
		return jsonvalue.Value{}, fmt.Errorf("toolexec: grpc invoke %s: %w", tool, err)
	}

	outField, ok := resp.Fields["output"]
	if !ok {
		log.Error().Str("tool", tool).Msg("toolexec: grpc response missing output field")
		return jsonvalue.Value{}, fmt.Errorf("toolexec: tool %q response missing output field", tool)
	}
	return jsonvalue.FromAny(outField.AsInterface())
}

func buildRequest(tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (*structpb.Struct, error) {
	var argsAny any
	if args.IsPresent() {
		if err := args.Decode(&argsAny); err != nil {
			return nil, err
		}
	}

	depsAny := make(map[string]any, len(deps))
	for id, r := range deps {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		depsAny[id] = v
	}

	return structpb.NewStruct(map[string]any{
		"tool":         tool,
		"arguments":    argsAny,
		"dependencies": depsAny,
	})
}
