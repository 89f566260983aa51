package cart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Mirror is the durable copy of one cart: a single named slot holding the
// serialized line items. Load returns nil data when the slot is empty.
type Mirror interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemoryMirror keeps the slot in process memory.
type MemoryMirror struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryMirror(initial []byte) *MemoryMirror {
	return &MemoryMirror{data: append([]byte(nil), initial...)}
}

func (m *MemoryMirror) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryMirror) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

// FileMirror keeps the slot in a JSON file under a directory.
type FileMirror struct {
	path string
}

func NewFileMirror(dir, slot string) *FileMirror {
	name := strings.NewReplacer(":", "_", "/", "_", `\`, "_").Replace(slot)
	return &FileMirror{path: filepath.Join(dir, name+".json")}
}

func (m *FileMirror) Path() string { return m.path }

func (m *FileMirror) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}
	return data, nil
}

// Save replaces the file atomically through a temp file and rename.
func (m *FileMirror) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cart temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}
