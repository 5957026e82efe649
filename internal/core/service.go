package core

import (
	"context"
	"fmt"
	"time"

	"holma/internal/infra/persistence/memory"
	"holma/pkg/domain"
)

// Service exposes transactional lookup and mutation operations over the
// shopping-group entity graph. Every mutating call runs as one transaction.
type Service struct {
	store   domain.PersistentStore
	guard   Guard
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  NewOTelTracer(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.clock != nil {
		if clocked, ok := store.(interface{ SetNowFunc(func() time.Time) }); ok {
			clocked.SetNowFunc(s.clock.Now)
		}
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// run executes fn as a single transaction wrapped in tracing, metrics and logs.
func (s *Service) run(ctx context.Context, op string, fn func(tx domain.Transaction) error) (Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, fn)
	s.finish(ctx, op, start, span, err)
	for _, w := range res.Warnings() {
		s.logger.Warn("core rule warning", "operation", op, "rule", w.Rule, "entity", w.Entity, "id", w.EntityID, "message", w.Message)
	}
	return res, err
}

// read executes fn against a read-only view.
func (s *Service) read(ctx context.Context, op string, fn func(view domain.TransactionView) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := s.store.View(ctx, fn)
	s.finish(ctx, op, start, span, err)
	return err
}

func (s *Service) finish(ctx context.Context, op string, start time.Time, span TraceSpan, err error) {
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logger.Error("core operation failed", "operation", op, "duration", duration, "error", err)
		return
	}
	s.logger.Debug("core operation completed", "operation", op, "duration", duration)
}

// Related resolves the entities linked to the anchor kind/id under rel. The
// relation may be anchored on either side: from the "from" side it yields
// related ids, from the "to" side it yields referrers.
func (s *Service) Related(ctx context.Context, kind EntityType, id int64, rel RelationKind) ([]Entity, error) {
	var out []Entity
	err := s.read(ctx, "related", func(view domain.TransactionView) error {
		if _, ok := view.Get(kind, id); !ok {
			return domain.NotFoundError{Entity: kind, ID: id}
		}
		from, to, ok := rel.Endpoints()
		var (
			ids    []int64
			target EntityType
		)
		switch {
		case !ok:
			return violation(ruleRelationAnchor, domain.ViolationInvariant, kind, id,
				fmt.Sprintf("unknown relation %q", rel))
		case from == kind:
			ids, target = view.Related(rel, id), to
		case to == kind:
			ids, target = view.Referrers(rel, id), from
		default:
			return violation(ruleRelationAnchor, domain.ViolationInvariant, kind, id,
				fmt.Sprintf("relation %s does not involve %s", rel, kind))
		}
		out = make([]Entity, 0, len(ids))
		for _, rid := range ids {
			if e, ok := view.Get(target, rid); ok {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
