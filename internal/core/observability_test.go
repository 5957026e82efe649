package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"holma/pkg/domain"
)

type captureLogger struct {
	debugs int
	warns  int
	errors int
}

func (l *captureLogger) Debug(string, ...any) { l.debugs++ }
func (l *captureLogger) Info(string, ...any)  {}
func (l *captureLogger) Warn(string, ...any)  { l.warns++ }
func (l *captureLogger) Error(string, ...any) { l.errors++ }

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestServiceObservability(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	svc := NewInMemoryService(NewDefaultRulesEngine(),
		WithLogger(logger),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	alice, _, err := svc.CreatePerson(ctx, domain.Person{Base: domain.Base{Name: "Alice"}})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	if !metrics.has("create_person", true) || !tracer.has("create_person", true) {
		t.Fatalf("expected success metrics and span for create_person")
	}
	if logger.debugs == 0 {
		t.Fatalf("expected debug log for successful operation")
	}

	if _, err := svc.DeletePerson(ctx, 42); err == nil {
		t.Fatalf("expected delete error")
	}
	if !metrics.has("delete_person", false) || !tracer.has("delete_person", false) {
		t.Fatalf("expected failure metrics and span for delete_person")
	}
	if logger.errors != 1 {
		t.Fatalf("expected one error log, got %d", logger.errors)
	}

	if _, err := svc.GetPerson(ctx, alice.ID); err != nil {
		t.Fatalf("get person: %v", err)
	}
	if !metrics.has("get_person", true) {
		t.Fatalf("expected reads to be observed")
	}

	group, _, err := svc.CreateGroupForPerson(ctx, alice.ID, "")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	outsider, _, _ := svc.CreatePerson(ctx, domain.Person{Base: domain.Base{Name: "Eve"}})
	milk, _, _ := svc.CreateArticle(ctx, domain.Article{Base: domain.Base{Name: "Milk"}, GroupID: group.ID})
	list, _, _ := svc.CreateShoppingList(ctx, domain.ShoppingList{Base: domain.Base{Name: "L"}, GroupID: group.ID})
	if _, _, err := svc.CreateListEntry(ctx, domain.ListEntry{ListID: list.ID, ArticleID: milk.ID, PurchasingPersonID: outsider.ID}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if logger.warns != 1 {
		t.Fatalf("expected rule warning to be logged once, got %d", logger.warns)
	}
}

func TestServiceDefaultsAreNoop(t *testing.T) {
	svc := NewInMemoryService(nil, WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), WithClock(nil))
	if _, ok := svc.logger.(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", svc.logger)
	}
	if _, ok := svc.metrics.(noopMetricsRecorder); !ok {
		t.Fatalf("expected noop metrics, got %T", svc.metrics)
	}
	if _, ok := svc.tracer.(*OTelTracer); !ok {
		t.Fatalf("expected otel tracer by default, got %T", svc.tracer)
	}
	var logger noopLogger
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
	_, span := noopTracer{}.Start(context.Background(), "op")
	span.End(errors.New("ignored"))
	noopMetricsRecorder{}.Observe(context.Background(), "op", true, time.Second)
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "create_person", true, 10*time.Millisecond)
	rec.Observe(ctx, "create_person", false, 5*time.Millisecond)
	rec.Observe(ctx, "create_person", true, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := make(map[string]float64)
	var observations uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "holma_core_operations_total":
			for _, m := range mf.GetMetric() {
				var op, status string
				for _, label := range m.GetLabel() {
					switch label.GetName() {
					case "operation":
						op = label.GetValue()
					case "status":
						status = label.GetValue()
					}
				}
				counts[op+"/"+status] = m.GetCounter().GetValue()
			}
		case "holma_core_operation_duration_seconds":
			for _, m := range mf.GetMetric() {
				observations += m.GetHistogram().GetSampleCount()
			}
		}
	}
	if counts["create_person/success"] != 2 || counts["create_person/error"] != 1 {
		t.Fatalf("unexpected counters %v", counts)
	}
	if observations != 3 {
		t.Fatalf("expected 3 latency observations, got %d", observations)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestOTelTracerEndsSpans(t *testing.T) {
	tracer := NewOTelTracer(noop.NewTracerProvider().Tracer("test"))
	ctx, span := tracer.Start(context.Background(), "create_group")
	if ctx == nil {
		t.Fatalf("expected context")
	}
	span.End(nil)
	_, span = tracer.Start(context.Background(), "delete_group")
	span.End(errors.New("boom"))

	svc := NewInMemoryService(NewDefaultRulesEngine(), WithTracer(tracer))
	if _, err := svc.ListGroups(context.Background()); err != nil {
		t.Fatalf("list groups: %v", err)
	}
}
