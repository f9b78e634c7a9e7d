package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS todo (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL
	)
`

// SQLiteStore implements the Store interface using a single SQLite table.
//
// Unlike FileStore, Create rejects an id that already exists.
type SQLiteStore struct {
	db  *sql.DB
	cfg SQLiteConfig
}

// SQLiteConfig holds SQLite store configuration
type SQLiteConfig struct {
	Path            string        `yaml:"path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	// Every connection to :memory: sees its own database.
	if cfg.Path == memoryPath {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	return &SQLiteStore{
		cfg: cfg,
	}, nil
}

// Init opens the database and ensures the todo table exists.
// Any failure is a startup error; the store must not be used afterwards.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := s.cfg.Path
	if dsn != memoryPath {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return newStartupError("init", fmt.Errorf("failed to open database: %w", err))
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return newStartupError("init", fmt.Errorf("failed to ping database: %w", err))
	}

	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		_ = db.Close()
		return newStartupError("init", fmt.Errorf("failed to create todo table: %w", err))
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return newIOError("health", "", err)
	}
	return nil
}

// FetchAll selects every row of the todo table.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]*Todo, error) {
	query := `SELECT id, title, completed FROM todo`

	todos, err := s.query(ctx, query)
	if err != nil {
		return nil, newIOError("fetch_all", "", err)
	}
	return todos, nil
}

// FetchByCompleted selects the rows whose completed column equals completed.
func (s *SQLiteStore) FetchByCompleted(ctx context.Context, completed bool) ([]*Todo, error) {
	query := `SELECT id, title, completed FROM todo WHERE completed = ?`

	todos, err := s.query(ctx, query, completed)
	if err != nil {
		return nil, newIOError("fetch_by_completed", "", err)
	}
	return todos, nil
}

// Create inserts a new row. A duplicate id is a constraint error.
func (s *SQLiteStore) Create(ctx context.Context, todo *Todo) error {
	if err := ValidateTodo(todo); err != nil {
		return err
	}

	query := `INSERT INTO todo (id, title, completed) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, todo.ID, todo.Title, todo.Completed)
	if isConstraintViolation(err) {
		return newConstraintError("create", todo.ID, fmt.Errorf("failed to create todo: %w", err))
	}
	if err != nil {
		return newIOError("create", todo.ID, fmt.Errorf("failed to create todo: %w", err))
	}

	return nil
}

// Update assigns the set fields of update in a single statement and returns
// the updated row. It returns nil without error when no row matches id.
func (s *SQLiteStore) Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error) {
	if err := validateUpdate(id, update); err != nil {
		return nil, err
	}

	var (
		columns []string
		args    []any
	)
	if title, ok := update.Title.Get(); ok {
		columns = append(columns, "title = ?")
		args = append(args, title)
	}
	if completed, ok := update.Completed.Get(); ok {
		columns = append(columns, "completed = ?")
		args = append(args, completed)
	}

	if len(columns) == 0 {
		todo, err := s.get(ctx, id)
		if err != nil {
			return nil, newIOError("update", id, err)
		}
		return todo, nil
	}

	query := "UPDATE todo SET " + strings.Join(columns, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, newIOError("update", id, fmt.Errorf("failed to update todo: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, newIOError("update", id, fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rows != 1 {
		return nil, nil
	}

	todo, err := s.get(ctx, id)
	if err != nil {
		return nil, newIOError("update", id, err)
	}
	return todo, nil
}

// Remove deletes the row with the given id and returns the id.
// It returns nil without error when no row matches.
func (s *SQLiteStore) Remove(ctx context.Context, id string) (*string, error) {
	if err := ValidateID("remove", id); err != nil {
		return nil, err
	}

	query := `DELETE FROM todo WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return nil, newIOError("remove", id, fmt.Errorf("failed to delete todo: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, newIOError("remove", id, fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rows != 1 {
		return nil, nil
	}

	return &id, nil
}

// get retrieves a todo by ID, or nil if there is none.
func (s *SQLiteStore) get(ctx context.Context, id string) (*Todo, error) {
	query := `SELECT id, title, completed FROM todo WHERE id = ?`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]*Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*Todo, error) {
	var (
		todo      Todo
		completed any
	)
	if err := row.Scan(&todo.ID, &todo.Title, &completed); err != nil {
		return nil, err
	}

	flag, err := normalizeBool(completed)
	if err != nil {
		return nil, err
	}
	todo.Completed = flag

	return &todo, nil
}

// normalizeBool converts a BOOLEAN column value, which SQLite stores as 0 or 1.
func normalizeBool(v any) (bool, error) {
	switch x := v.(type) {
	case int64:
		return x != 0, nil
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case []byte:
		return normalizeBool(string(x))
	case string:
		switch strings.ToLower(x) {
		case "1", "true":
			return true, nil
		case "0", "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("unexpected completed value %v (%T)", v, v)
}

func isConstraintViolation(err error) bool {
	var e *sqlite.Error
	if errors.As(err, &e) {
		return e.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
