package stores_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/openfroyo/todostore/pkg/stores"
)

// Example demonstrates the basic lifecycle of a record.
func Example() {
	dir, err := os.MkdirTemp("", "todos-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	store, err := stores.Open(ctx, stores.Config{
		Backend: stores.BackendFile,
		File:    stores.FileConfig{Dir: dir},
	})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	if err := store.Create(ctx, &stores.Todo{ID: "t1", Title: "Buy milk"}); err != nil {
		panic(err)
	}

	todo, err := store.Update(ctx, "t1", stores.TodoUpdate{Completed: stores.Some(true)})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s %q completed=%v\n", todo.ID, todo.Title, todo.Completed)

	removed, err := store.Remove(ctx, "t1")
	if err != nil {
		panic(err)
	}
	fmt.Println("removed", *removed)

	missing, err := store.Remove(ctx, "t1")
	if err != nil {
		panic(err)
	}
	fmt.Println("removed again:", missing != nil)

	// Output:
	// t1 "Buy milk" completed=true
	// removed t1
	// removed again: false
}

// ExampleSQLiteStore_FetchByCompleted filters records by their completed flag.
func ExampleSQLiteStore_FetchByCompleted() {
	dir, err := os.MkdirTemp("", "todo-db-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	store, err := stores.NewSQLiteStore(stores.SQLiteConfig{Path: filepath.Join(dir, "todo.db")})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		panic(err)
	}
	defer store.Close()

	for _, todo := range []*stores.Todo{
		{ID: "1", Title: "Write report", Completed: true},
		{ID: "2", Title: "Review PR"},
		{ID: "3", Title: "Book flights", Completed: true},
	} {
		if err := store.Create(ctx, todo); err != nil {
			panic(err)
		}
	}

	done, err := store.FetchByCompleted(ctx, true)
	if err != nil {
		panic(err)
	}
	sort.Slice(done, func(i, j int) bool { return done[i].ID < done[j].ID })

	for _, todo := range done {
		fmt.Println(todo.ID, todo.Title)
	}

	// Output:
	// 1 Write report
	// 3 Book flights
}

// ExampleSQLiteStore_Create shows that SQLite rejects a duplicate id.
func ExampleSQLiteStore_Create() {
	store, err := stores.NewSQLiteStore(stores.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		panic(err)
	}
	defer store.Close()

	_ = store.Create(ctx, &stores.Todo{ID: "t1", Title: "Buy milk"})
	err = store.Create(ctx, &stores.Todo{ID: "t1", Title: "Buy bread"})

	fmt.Println(stores.IsConstraint(err))

	// Output:
	// true
}
