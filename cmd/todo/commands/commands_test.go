package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openfroyo/todostore/pkg/stores"
)

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand("test", "none", "unknown")
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("todo %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func listJSON(t *testing.T, args ...string) []stores.Todo {
	t.Helper()

	out := mustRun(t, append([]string{"list", "--json"}, args...)...)
	var todos []stores.Todo
	if err := json.Unmarshal([]byte(out), &todos); err != nil {
		t.Fatalf("failed to decode list output %q: %v", out, err)
	}
	return todos
}

func TestCommands_Scenario(t *testing.T) {
	for _, backend := range []string{stores.BackendFile, stores.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := filepath.Join(dir, "todo.yaml")

			out := mustRun(t, "init",
				"--config", cfgPath,
				"--backend", backend,
				"--dir", filepath.Join(dir, "todos"),
				"--db", filepath.Join(dir, "todo.db"),
			)
			if !strings.Contains(out, "Created config file: "+cfgPath) {
				t.Errorf("unexpected init output: %s", out)
			}

			out = mustRun(t, "add", "--config", cfgPath, "--id", "t1", "Buy milk")
			if out != "t1  Buy milk (pending)\n" {
				t.Errorf("unexpected add output: %q", out)
			}

			todos := listJSON(t, "--config", cfgPath)
			want := stores.Todo{ID: "t1", Title: "Buy milk"}
			if len(todos) != 1 || todos[0] != want {
				t.Fatalf("expected [%+v], got %+v", want, todos)
			}

			out = mustRun(t, "update", "--config", cfgPath, "t1", "--completed")
			if out != "t1  Buy milk (done)\n" {
				t.Errorf("unexpected update output: %q", out)
			}

			if done := listJSON(t, "--config", cfgPath, "--completed", "true"); len(done) != 1 {
				t.Errorf("expected 1 completed todo, got %+v", done)
			}
			if open := listJSON(t, "--config", cfgPath, "--completed", "false"); len(open) != 0 {
				t.Errorf("expected no open todos, got %+v", open)
			}

			out = mustRun(t, "remove", "--config", cfgPath, "t1")
			if out != "Removed t1\n" {
				t.Errorf("unexpected remove output: %q", out)
			}

			if _, err := run(t, "remove", "--config", cfgPath, "t1"); err == nil {
				t.Error("expected error removing a missing todo")
			}
			mustRun(t, "rm", "--config", cfgPath, "--ignore-missing", "t1")

			out = mustRun(t, "list", "--config", cfgPath)
			if out != "No todos.\n" {
				t.Errorf("unexpected list output: %q", out)
			}
		})
	}
}

func TestCommands_AddGeneratesID(t *testing.T) {
	cfgPath := initFileConfig(t)

	mustRun(t, "add", "--config", cfgPath, "Write report")

	todos := listJSON(t, "--config", cfgPath)
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %+v", todos)
	}
	if len(todos[0].ID) != 36 {
		t.Errorf("expected a UUID id, got %q", todos[0].ID)
	}
}

func TestCommands_Errors(t *testing.T) {
	cfgPath := initFileConfig(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "update without fields", args: []string{"update", "--config", cfgPath, "t1"}, wantErr: "nothing to update"},
		{name: "update missing", args: []string{"update", "--config", cfgPath, "t1", "--title", "x"}, wantErr: "not found"},
		{name: "empty title", args: []string{"add", "--config", cfgPath, "--id", "t1", ""}, wantErr: "validation"},
		{name: "bad completed filter", args: []string{"list", "--config", cfgPath, "--completed", "maybe"}, wantErr: "invalid syntax"},
		{name: "unknown backend", args: []string{"list", "--config", cfgPath, "--backend", "postgres"}, wantErr: "invalid configuration"},
		{name: "watch on sqlite", args: []string{"watch", "--config", cfgPath, "--backend", "sqlite"}, wantErr: "requires the file backend"},
		{name: "init twice", args: []string{"init", "--config", cfgPath}, wantErr: "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPrintTodos_Table(t *testing.T) {
	var buf bytes.Buffer
	todos := []*stores.Todo{
		{ID: "b", Title: "Second", Completed: true},
		{ID: "a", Title: "First"},
	}
	if err := printTodos(&buf, todos, false); err != nil {
		t.Fatal(err)
	}

	want := "ID  DONE  TITLE\na   [ ]   First\nb   [x]   Second\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

// initFileConfig writes a file-backend config into a temp dir and returns its path.
// The sqlite path points into the same dir so --backend sqlite can open it.
func initFileConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "todo.yaml")
	mustRun(t, "init",
		"--config", cfgPath,
		"--dir", filepath.Join(dir, "todos"),
		"--db", filepath.Join(dir, "todo.db"),
	)
	return cfgPath
}
