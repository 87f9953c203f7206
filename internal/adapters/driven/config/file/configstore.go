package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// HomeEnv overrides the application directory.
const HomeEnv = "QUILL_HOME"

const configFile = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in config.toml. A key "sync.per_page" is
// the per_page entry of the [sync] table; the file stays editable by hand.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	tree map[string]any
}

// HomeDir returns the application directory: $QUILL_HOME if set,
// otherwise ~/.quill.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".quill"), nil
}

// NewConfigStore opens dir/config.toml, creating dir when needed. An
// empty dir means HomeDir(). A missing file is an empty configuration.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		dir = home
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(dir, configFile)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards in-memory values and reads the file again.
func (s *ConfigStore) Reload() error {
	data, err := os.ReadFile(s.path)
	tree := map[string]any{}
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("parsing %s: %w", s.path, err)
		}
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, leaf := s.table(key, false)
	if table == nil {
		return nil, false
	}
	v, ok := table[leaf]
	if _, isTable := v.(map[string]any); isTable {
		return nil, false
	}
	return v, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, leaf := s.table(key, true)
	if table == nil {
		return fmt.Errorf("config key %q collides with an existing value", key)
	}
	table[leaf] = value
	return s.write()
}

func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, leaf := s.table(key, false)
	if table == nil {
		return nil
	}
	if _, ok := table[leaf]; !ok {
		return nil
	}
	delete(table, leaf)
	prune(s.tree)
	return s.write()
}

// Path returns the location of config.toml.
func (s *ConfigStore) Path() string {
	return s.path
}

// table walks the dotted key down to the table holding its last segment.
// With create set, missing tables are added on the way. It returns nil
// when a segment on the path is already a plain value.
func (s *ConfigStore) table(key string, create bool) (map[string]any, string) {
	parts := strings.Split(key, ".")
	node := s.tree
	for _, part := range parts[:len(parts)-1] {
		next, exists := node[part]
		if !exists {
			if !create {
				return nil, ""
			}
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, ""
		}
		node = child
	}
	return node, parts[len(parts)-1]
}

// prune drops tables left empty by a delete.
func prune(node map[string]any) {
	for k, v := range node {
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		prune(child)
		if len(child) == 0 {
			delete(node, k)
		}
	}
}

// write replaces the file atomically. Caller holds the lock.
func (s *ConfigStore) write() error {
	data, err := toml.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
