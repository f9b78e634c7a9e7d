package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/openfroyo/todostore/pkg/stores"
)

// printTodos writes todos sorted by id, as a table or as a JSON array.
func printTodos(w io.Writer, todos []*stores.Todo, asJSON bool) error {
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })

	if asJSON {
		return writeJSON(w, todos)
	}

	if len(todos) == 0 {
		_, err := fmt.Fprintln(w, "No todos.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE")
	for _, todo := range todos {
		done := " "
		if todo.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\n", todo.ID, done, todo.Title)
	}
	return tw.Flush()
}

func printTodo(w io.Writer, todo *stores.Todo, asJSON bool) error {
	if asJSON {
		return writeJSON(w, todo)
	}
	state := "pending"
	if todo.Completed {
		state = "done"
	}
	_, err := fmt.Fprintf(w, "%s  %s (%s)\n", todo.ID, todo.Title, state)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
