package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the snapshot file suffix
const Extension = ".hydr"

// Manager handles save/load of named snapshots under one directory
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the path for a snapshot name
// A name that already carries the extension or a directory is used as is
func (m *Manager) FilePath(name string) string {
	if strings.HasSuffix(name, Extension) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(m.basePath, name+Extension)
}

// Exists checks if a snapshot file exists
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.FilePath(name))
	return err == nil
}

// Save writes the snapshot atomically through a temporary file
func (m *Manager) Save(name string, snap Snapshot) error {
	path := m.FilePath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes a snapshot
func (m *Manager) Load(name string) (Snapshot, error) {
	path := m.FilePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	snap, err := DecodeBytes(data)
	if err != nil {
		return snap, fmt.Errorf("load %s: %w", path, err)
	}
	return snap, nil
}

// List returns the snapshot names in the base directory, sorted
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Extension) {
			names = append(names, strings.TrimSuffix(e.Name(), Extension))
		}
	}
	sort.Strings(names)
	return names, nil
}
