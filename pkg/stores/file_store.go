package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// recordExt is the extension of record files. Anything else in the
// directory is ignored.
const recordExt = ".json"

// FileStore implements the Store interface with one JSON file per record.
//
// Create overwrites an existing record with the same id (last write wins).
type FileStore struct {
	dir string
}

// FileConfig holds FileStore configuration
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// NewFileStore creates a new file store instance
func NewFileStore(cfg FileConfig) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}

	return &FileStore{
		dir: filepath.Clean(cfg.Dir),
	}, nil
}

// Dir returns the directory holding the record files.
func (s *FileStore) Dir() string {
	return s.dir
}

// Init creates the store directory if it does not exist.
func (s *FileStore) Init(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return newStartupError("init", fmt.Errorf("failed to create store directory: %w", err))
	}
	return nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

// HealthCheck verifies the store directory is present.
func (s *FileStore) HealthCheck(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return newIOError("health", "", err)
	}
	if !info.IsDir() {
		return newIOError("health", "", fmt.Errorf("%s is not a directory", s.dir))
	}
	return nil
}

// FetchAll reads every record file in the store directory.
// Files are read concurrently, so the result order is unspecified.
func (s *FileStore) FetchAll(ctx context.Context) ([]*Todo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, newIOError("fetch_all", "", fmt.Errorf("failed to list store directory: %w", err))
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != recordExt {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}

	todos := make([]*Todo, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			todo, err := readRecord(path)
			if err != nil {
				return err
			}
			todos[i] = todo
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, newIOError("fetch_all", "", err)
	}

	return todos, nil
}

// FetchByCompleted returns the records whose completed flag equals completed.
func (s *FileStore) FetchByCompleted(ctx context.Context, completed bool) ([]*Todo, error) {
	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	todos := []*Todo{}
	for _, todo := range all {
		if todo.Completed == completed {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

// Create writes the record to {id}.json, replacing any existing file.
func (s *FileStore) Create(_ context.Context, todo *Todo) error {
	if err := ValidateTodo(todo); err != nil {
		return err
	}

	if err := s.writeRecord(todo); err != nil {
		return newIOError("create", todo.ID, err)
	}
	return nil
}

// Update merges the set fields of update over the stored record.
// It returns nil without error when the record does not exist.
func (s *FileStore) Update(_ context.Context, id string, update TodoUpdate) (*Todo, error) {
	if err := validateUpdate(id, update); err != nil {
		return nil, err
	}

	todo, err := readRecord(s.recordPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, newIOError("update", id, err)
	}

	if update.IsEmpty() {
		return todo, nil
	}

	update.apply(todo)
	if err := s.writeRecord(todo); err != nil {
		return nil, newIOError("update", id, err)
	}

	return todo, nil
}

// Remove deletes the record file.
// It returns nil without error when the record does not exist.
func (s *FileStore) Remove(_ context.Context, id string) (*string, error) {
	if err := ValidateID("remove", id); err != nil {
		return nil, err
	}

	err := os.Remove(s.recordPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, newIOError("remove", id, err)
	}

	return &id, nil
}

// ChangeOp is the kind of change reported by Watch.
type ChangeOp string

const (
	ChangeWritten ChangeOp = "written"
	ChangeRemoved ChangeOp = "removed"
)

// ChangeEvent reports a change to a single record file.
type ChangeEvent struct {
	ID string   `json:"id"`
	Op ChangeOp `json:"op"`
}

// Watch starts watching the store directory and calls fn for every record
// file that is written or removed, until ctx is done. Writes made by Create
// and Update surface as ChangeWritten once the file is renamed into place.
func (s *FileStore) Watch(ctx context.Context, fn func(ChangeEvent)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	go s.processEvents(ctx, watcher, fn)

	zerolog.Ctx(ctx).Debug().Str("dir", s.dir).Msg("Started watching store directory")
	return nil
}

// processEvents translates filesystem events into record changes.
func (s *FileStore) processEvents(ctx context.Context, watcher *fsnotify.Watcher, fn func(ChangeEvent)) {
	defer watcher.Close()
	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if filepath.Ext(name) != recordExt {
				continue
			}
			id := strings.TrimSuffix(name, recordExt)

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				fn(ChangeEvent{ID: id, Op: ChangeWritten})
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				fn(ChangeEvent{ID: id, Op: ChangeRemoved})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Str("dir", s.dir).Msg("Store watcher error")
		}
	}
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

// writeRecord writes to a temporary sibling and renames it into place so
// readers never observe a partially written record.
func (s *FileStore) writeRecord(todo *Todo) error {
	data, err := json.Marshal(todo)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+todo.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set record permissions: %w", err)
	}

	if err := os.Rename(tmpName, s.recordPath(todo.ID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}

func readRecord(path string) (*Todo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	todo := &Todo{}
	if err := json.Unmarshal(data, todo); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return todo, nil
}
