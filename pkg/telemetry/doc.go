// Package telemetry provides observability for the todo store.
//
// It integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry) and metrics (Prometheus) behind one Telemetry value that is
// built from configuration and handed to stores.Instrument.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	store = stores.Instrument(store, "sqlite", tel)
//
// # Metrics
//
//   - store_operations_total{backend,operation,result}
//   - store_operation_duration_seconds{backend,operation}
//   - store_errors_total{backend,operation,class}
//   - todos_stored{backend}
//
// Metrics are kept in a private registry exposed through Metrics.Handler.
package telemetry
