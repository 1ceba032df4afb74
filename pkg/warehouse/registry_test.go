package warehouse

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

type fakeExecutor struct{ dialect string }

func (f *fakeExecutor) Query(context.Context, string) (*QueryResult, error) { return nil, nil }
func (f *fakeExecutor) Dialect() string                                     { return f.dialect }
func (f *fakeExecutor) Close() error                                        { return nil }

func TestNewQueryExecutor_Registered(t *testing.T) {
	Register("faketype", func(cfg *Config, logger *zap.Logger) QueryExecutor {
		return &fakeExecutor{dialect: "Fake"}
	})

	executor, err := NewQueryExecutor(&Config{Type: "faketype"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewQueryExecutor returned error: %v", err)
	}
	if executor.Dialect() != "Fake" {
		t.Errorf("Dialect() = %q, want Fake", executor.Dialect())
	}
}

func TestNewQueryExecutor_Unsupported(t *testing.T) {
	_, err := NewQueryExecutor(&Config{Type: "oracle"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unregistered warehouse type")
	}
}

func TestQueryResult_EmptyAndRowCount(t *testing.T) {
	var nilResult *QueryResult
	if !nilResult.Empty() {
		t.Error("nil result should be empty")
	}
	if nilResult.RowCount() != 0 {
		t.Error("nil result should have zero rows")
	}

	zeroRows := &QueryResult{Columns: []string{"a"}}
	if zeroRows.Empty() {
		t.Error("a columned result with zero rows is not the failure shape")
	}

	noColumns := &QueryResult{}
	if !noColumns.Empty() {
		t.Error("a zero-column result is the failure shape")
	}
}
