// Package localfs persists every key into one JSON snapshot file.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/dvloznov/wealthsense/internal/store"
)

// SnapshotFile is the name of the snapshot inside the data directory.
const SnapshotFile = "wealthsense.json"

// Persister keeps all keys in <dir>/wealthsense.json. The file is replaced
// through a temp file and a single rename, so a reader sees either the old
// or the new set of blobs and never a mix.
type Persister struct {
	mu     sync.Mutex
	dir    string
	rename func(oldpath, newpath string) error
}

// New creates dir if needed.
func New(dir string) (*Persister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localfs: create data dir %q: %w", dir, err)
	}
	return &Persister{dir: dir, rename: os.Rename}, nil
}

func (p *Persister) path() string {
	return filepath.Join(p.dir, SnapshotFile)
}

// readSnapshot returns an empty map when nothing has been written yet.
func (p *Persister) readSnapshot() (map[string][]byte, error) {
	data, err := os.ReadFile(p.path())
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localfs: read %s: %w", p.path(), err)
	}
	snapshot := map[string][]byte{}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("localfs: decode %s: %w", p.path(), err)
	}
	return snapshot, nil
}

// Get implements store.Persister.
func (p *Persister) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("localfs: empty key")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot, err := p.readSnapshot()
	if err != nil {
		return nil, false, err
	}
	v, ok := snapshot[key]
	return v, ok, nil
}

// PutAll implements store.Persister. Keys not named in entries keep their
// current value.
func (p *Persister) PutAll(ctx context.Context, entries map[string][]byte) error {
	for k := range entries {
		if k == "" {
			return errors.New("localfs: empty key")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot, err := p.readSnapshot()
	if err != nil {
		return err
	}
	maps.Copy(snapshot, entries)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("localfs: encode snapshot: %w", err)
	}
	tmp, err := writeTemp(p.dir, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := p.rename(tmp, p.path()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localfs: replace %s: %w", p.path(), err)
	}
	return nil
}

func writeTemp(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+SnapshotFile+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("localfs: create temp: %w", err)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("localfs: write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("localfs: sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("localfs: close snapshot: %w", err)
	}
	return name, nil
}

// Ensure Persister implements the store port.
var _ store.Persister = (*Persister)(nil)
