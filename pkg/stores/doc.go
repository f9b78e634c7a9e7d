// Package stores provides the todo persistence layer.
// It defines the Store contract and two interchangeable backends: FileStore,
// which keeps one JSON file per record in a directory, and SQLiteStore, which
// keeps records as rows of a single "todo" table. A backend is chosen at
// construction time with Open.
package stores
