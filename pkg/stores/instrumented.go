package stores

import (
	"context"

	"github.com/openfroyo/todostore/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedStore decorates a Store with logging, tracing and metrics.
type InstrumentedStore struct {
	next    Store
	backend string
	tel     *telemetry.Telemetry
	logger  *telemetry.Logger
}

// Instrument wraps store so every operation is logged, traced and counted
// under the given backend name. A nil tel disables all three.
func Instrument(store Store, backend string, tel *telemetry.Telemetry) *InstrumentedStore {
	if tel == nil {
		tel = telemetry.Nop()
	}
	return &InstrumentedStore{
		next:    store,
		backend: backend,
		tel:     tel,
		logger:  tel.Logger.NewComponentLogger("store").WithBackend(backend),
	}
}

// Unwrap returns the decorated store.
func (s *InstrumentedStore) Unwrap() Store {
	return s.next
}

// operation tracks a single instrumented call.
type operation struct {
	s     *InstrumentedStore
	name  string
	id    string
	span  trace.Span
	timer *telemetry.Timer
}

func (s *InstrumentedStore) start(ctx context.Context, name, id string, attrs ...attribute.KeyValue) (context.Context, *operation) {
	if id != "" {
		attrs = append(attrs, telemetry.AttrTodoID.String(id))
	}
	ctx, span := s.tel.Tracer.StartStoreSpan(ctx, s.backend, name, attrs...)
	return ctx, &operation{s: s, name: name, id: id, span: span, timer: telemetry.NewTimer()}
}

// end records the outcome. found is false when the call resolved a missing
// record to a nil result.
func (op *operation) end(err error, found bool) {
	defer op.span.End()

	logger := op.s.logger.WithField("operation", op.name)
	if op.id != "" {
		logger = logger.WithTodoID(op.id)
	}

	result := telemetry.ResultOK
	switch {
	case err != nil:
		result = telemetry.ResultError
		class := string(ClassOf(err))
		op.s.tel.Metrics.RecordError(op.s.backend, op.name, class)
		op.span.SetAttributes(telemetry.AttrErrorClass.String(class))
		telemetry.RecordError(op.span, err)
		logger.WithError(err).Error("Store operation failed")
	case !found:
		result = telemetry.ResultNotFound
		op.span.SetAttributes(telemetry.AttrFound.Bool(false))
		telemetry.RecordSuccess(op.span)
		logger.Debug("Todo not found")
	default:
		telemetry.RecordSuccess(op.span)
		logger.Debug("Store operation completed")
	}

	op.s.tel.Metrics.RecordOperation(op.s.backend, op.name, result, op.timer.Duration())
}

// Init initializes the decorated store.
func (s *InstrumentedStore) Init(ctx context.Context) error {
	ctx, op := s.start(ctx, "init", "")
	err := s.next.Init(ctx)
	op.end(err, true)
	return err
}

// Close closes the decorated store.
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

// HealthCheck checks the decorated store.
func (s *InstrumentedStore) HealthCheck(ctx context.Context) error {
	ctx, op := s.start(ctx, "health", "")
	err := s.next.HealthCheck(ctx)
	op.end(err, true)
	return err
}

// FetchAll fetches every record and updates the stored-records gauge.
func (s *InstrumentedStore) FetchAll(ctx context.Context) ([]*Todo, error) {
	ctx, op := s.start(ctx, "fetch_all", "")
	todos, err := s.next.FetchAll(ctx)
	if err == nil {
		op.span.SetAttributes(telemetry.AttrResultCount.Int(len(todos)))
		s.tel.Metrics.SetStoredCount(s.backend, len(todos))
	}
	op.end(err, true)
	return todos, err
}

// FetchByCompleted fetches records by completed flag.
func (s *InstrumentedStore) FetchByCompleted(ctx context.Context, completed bool) ([]*Todo, error) {
	ctx, op := s.start(ctx, "fetch_by_completed", "", telemetry.AttrCompleted.Bool(completed))
	todos, err := s.next.FetchByCompleted(ctx, completed)
	if err == nil {
		op.span.SetAttributes(telemetry.AttrResultCount.Int(len(todos)))
	}
	op.end(err, true)
	return todos, err
}

// Create creates a record.
func (s *InstrumentedStore) Create(ctx context.Context, todo *Todo) error {
	var id string
	if todo != nil {
		id = todo.ID
	}
	ctx, op := s.start(ctx, "create", id)
	err := s.next.Create(ctx, todo)
	op.end(err, true)
	return err
}

// Update applies a partial update.
func (s *InstrumentedStore) Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error) {
	ctx, op := s.start(ctx, "update", id)
	todo, err := s.next.Update(ctx, id, update)
	op.end(err, todo != nil)
	return todo, err
}

// Remove removes a record.
func (s *InstrumentedStore) Remove(ctx context.Context, id string) (*string, error) {
	ctx, op := s.start(ctx, "remove", id)
	removed, err := s.next.Remove(ctx, id)
	op.end(err, removed != nil)
	return removed, err
}
