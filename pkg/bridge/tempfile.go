package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

const (
	descriptorPrefix = "mcp_request_"
	descriptorSuffix = ".json"
	sweepAge         = time.Hour
)

// TempManager owns the lifetime of popup request descriptor files: it
// writes them under the platform temp directory and guarantees their
// deletion on every exit path of an invocation.
type TempManager struct {
	fs  afero.Fs
	dir string
}

// NewTempManager builds a manager rooted at dir (the platform temp
// directory when dir is empty).
func NewTempManager(fs afero.Fs, dir string) *TempManager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempManager{fs: fs, dir: dir}
}

// descriptorPath returns the on-disk path for a request id, following the
// mcp_request_<id>.json naming convention.
func (m *TempManager) descriptorPath(id string) string {
	return filepath.Join(m.dir, descriptorPrefix+id+descriptorSuffix)
}

// Write serializes req to its descriptor path using create-or-truncate
// semantics and returns a release function that deletes the file. Callers
// must defer release() immediately so the file is removed on every exit
// path, including panics that unwind through the defer chain.
func (m *TempManager) Write(req *Request) (path string, release func(), err error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", func() {}, fmt.Errorf("marshal request descriptor: %w", err)
	}

	path = m.descriptorPath(req.ID)
	f, err := m.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return "", func() {}, fmt.Errorf("create request descriptor %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = m.fs.Remove(path)
		return "", func() {}, fmt.Errorf("write request descriptor %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = m.fs.Remove(path)
		return "", func() {}, fmt.Errorf("close request descriptor %s: %w", path, err)
	}

	release = func() { _ = m.fs.Remove(path) }
	return path, release, nil
}

// Sweep removes descriptor files older than one hour, recovering from a
// prior crash that skipped the normal release path. It is called once at
// server startup and never during a live request's lifetime.
func (m *TempManager) Sweep(log logr.Logger) {
	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		log.V(1).Info("temp sweep skipped", "dir", m.dir, "reason", err.Error())
		return
	}

	cutoff := sweepCutoff()
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, descriptorPrefix) || !strings.HasSuffix(name, descriptorSuffix) {
			continue
		}
		if entry.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, name)
		if err := m.fs.Remove(path); err != nil {
			log.V(1).Info("failed to sweep orphaned descriptor", "path", path, "reason", err.Error())
			continue
		}
		log.V(1).Info("swept orphaned descriptor", "path", path)
	}
}

// sweepCutoff is overridable by tests so they don't depend on wall-clock
// timing of freshly-written fixtures.
var sweepCutoff = func() time.Time {
	return time.Now().Add(-sweepAge)
}
