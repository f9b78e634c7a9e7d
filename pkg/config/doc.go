// Package config loads the YAML configuration for the todo store.
//
// A configuration file has two sections:
//
//	store:
//	  backend: sqlite        # file | sqlite
//	  file:
//	    dir: ./data/todos
//	  sqlite:
//	    path: ./data/todo.db
//	telemetry:
//	  logging:
//	    level: info
//	    format: console
//
// Values not present in the file keep their defaults from Default.
package config
