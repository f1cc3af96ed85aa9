package checkpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// FileStore is a file-backed KVStore. It reuses the teacher's atomic-write
// discipline (temp file + fsync + rename + directory fsync) so a crash
// between writes never leaves a corrupt or partially-written checkpoint on
// disk, generalized here from a run-scoped layout to an arbitrary key.
type FileStore struct {
	baseDir string
}

// NewFileStore roots the store at baseDir; the directory is created lazily
// on first write.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

type fileRecord struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *FileStore) pathFor(key string) string {
	// Keys are opaque checkpoint/cache ids produced by this module, never
	// user-controlled path fragments, so a direct join is safe.
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rec := fileRecord{Value: value, ExpiresAt: time.Now().Add(ttl)}
	data, err := json.Marshal(rec)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: filestore marshal failed")
		return err
	}
	path := s.pathFor(key)
	if err := writeFileAtomicDurable(path, data, 0o644); err != nil {
		log.Error().Err(err).Str("key", key).Str("path", path).Msg("checkpoint: filestore write failed")
		return err
	}
	log.Debug().Str("key", key).Str("path", path).Msg("checkpoint: filestore put")
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCheckpointNotFound
		}
		log.Error().Err(err).Str("key", key).Msg("checkpoint: filestore open failed")
		return nil, err
	}
	defer f.Close()

	var rec fileRecord
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: filestore decode failed")
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		_ = os.Remove(s.pathFor(key))
		log.Debug().Str("key", key).Msg("checkpoint: filestore entry expired")
		return nil, ErrCheckpointExpired
	}
	return rec.Value, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.pathFor(key))
	if err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: filestore delete failed")
		return err
	}
	return nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
