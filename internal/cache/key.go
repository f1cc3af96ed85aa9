// Package cache implements the Execution Cache (C6): an in-memory map
// keyed by a stable hash of (code-body, canonicalized-context,
// tool-versions), bounded by a strict-LRU eviction policy with per-entry
// TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/toolmesh/dagcore/internal/task"
)

// Key is the stable cache key identity.
type Key string

// KeyInput is everything the key is derived from. Distinct tool-version
// maps produce distinct keys, which acts as implicit invalidation when any
// used tool's version changes.
type KeyInput struct {
	CodeBody         string
	CanonicalContext string
	ToolVersions     map[string]string
}

// ComputeKey hashes the inputs the same way the teacher's TaskHasher
// computes a TaskHash: a length-prefixed SHA-256 over each field in a fixed
// order, with the tool-version map sorted by key for determinism.
func ComputeKey(in KeyInput) Key {
	h := sha256.New()

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56), byte(length >> 48), byte(length >> 40), byte(length >> 32),
			byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length),
		}
		h.Write(lengthBytes)
		h.Write(data)
	}

	writeField([]byte(in.CodeBody))
	writeField([]byte(in.CanonicalContext))

	keys := make([]string, 0, len(in.ToolVersions))
	for k := range in.ToolVersions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeField([]byte{byte(len(keys))})
	for _, k := range keys {
		writeField([]byte(k))
		writeField([]byte(in.ToolVersions[k]))
	}

	return Key(hex.EncodeToString(h.Sum(nil)))
}

// KeyForTask derives the cache Key for a pure task from its body and its
// dependency result map (canonicalized by dependency id), matching the C6
// cache-key definition of (code-hash, normalized-context, tool-versions).
func KeyForTask(body string, deps map[string]task.TaskResult, toolVersions map[string]string) Key {
	ids := make([]string, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ctxHash := sha256.New()
	for _, id := range ids {
		r := deps[id]
		ctxHash.Write([]byte(id))
		ctxHash.Write([]byte(r.Status))
		ctxHash.Write(r.Output.Raw())
	}

	return ComputeKey(KeyInput{
		CodeBody:         body,
		CanonicalContext: hex.EncodeToString(ctxHash.Sum(nil)),
		ToolVersions:     toolVersions,
	})
}
