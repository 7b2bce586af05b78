package export

import (
	"context"
	"fmt"
	"testing"

	"github.com/playlytics/kpiengine/pkg/report"
)

// mockSink records exported tables for testing
type mockSink struct {
	id       string
	exported []*report.Table
	err      error
}

func (m *mockSink) ID() string     { return m.id }
func (m *mockSink) Name() string   { return m.id }
func (m *mockSink) Config() Config { return Config{ID: m.id} }
func (m *mockSink) Export(ctx context.Context, table *report.Table) error {
	if m.err != nil {
		return m.err
	}
	m.exported = append(m.exported, table)
	return nil
}

func TestExecutor_Export(t *testing.T) {
	registry := NewRegistry()
	sink := &mockSink{id: "sink1"}
	registry.Register(sink)

	executor := NewExecutor(registry)
	table := &report.Table{ReportID: "r1"}

	if err := executor.Export(context.Background(), "sink1", table); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(sink.exported) != 1 {
		t.Errorf("Expected 1 exported table, got %d", len(sink.exported))
	}
}

func TestExecutor_Export_UnknownSink(t *testing.T) {
	executor := NewExecutor(NewRegistry())

	err := executor.Export(context.Background(), "missing", &report.Table{ReportID: "r1"})
	if err == nil {
		t.Error("Expected error for unknown sink")
	}
}

func TestExecutor_ExportMultiple_CountsFailures(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockSink{id: "good"})
	registry.Register(&mockSink{id: "bad", err: fmt.Errorf("write failed")})

	executor := NewExecutor(registry)
	table := &report.Table{ReportID: "r1"}

	failed := executor.ExportMultiple(context.Background(), []string{"good", "bad", "missing"}, table)
	if failed != 2 {
		t.Errorf("Expected 2 failures, got %d", failed)
	}
}

func TestExecutor_ExportMultiple_ContinuesAfterFailure(t *testing.T) {
	registry := NewRegistry()
	first := &mockSink{id: "first", err: fmt.Errorf("boom")}
	second := &mockSink{id: "second"}
	registry.Register(first)
	registry.Register(second)

	executor := NewExecutor(registry)
	executor.ExportMultiple(context.Background(), []string{"first", "second"}, &report.Table{ReportID: "r1"})

	if len(second.exported) != 1 {
		t.Error("Expected later sinks to run after a failure")
	}
}

func TestRegistry_DuplicateSink(t *testing.T) {
	registry := NewRegistry()
	sink := &mockSink{id: "sink1"}

	if err := registry.Register(sink); err != nil {
		t.Fatalf("Failed to register sink: %v", err)
	}
	if err := registry.Register(sink); err == nil {
		t.Error("Expected error for duplicate sink ID")
	}
	if registry.Count() != 1 {
		t.Errorf("Expected count 1, got %d", registry.Count())
	}
}
