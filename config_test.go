package tracedump

import (
	"testing"
	"time"

	"github.com/yitzikc/tracedump/internal/record"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Logger == nil {
		t.Error("DefaultConfig() should set a non-nil Logger")
	}
	if cfg.MaxRecordsPerChunk == 0 {
		t.Error("DefaultConfig() should set a nonzero MaxRecordsPerChunk")
	}
	if cfg.NumRetriesOnPartialRecord != 3 {
		t.Errorf("NumRetriesOnPartialRecord = %d, want 3", cfg.NumRetriesOnPartialRecord)
	}
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithThresholdSeverity(record.SeverityError),
		WithMaxRecordsPerChunk(42),
		WithRetryPolicy(5, 20*time.Microsecond),
	)

	if cfg.ThresholdSeverity != record.SeverityError {
		t.Errorf("ThresholdSeverity = %v, want SeverityError", cfg.ThresholdSeverity)
	}
	if cfg.MaxRecordsPerChunk != 42 {
		t.Errorf("MaxRecordsPerChunk = %d, want 42", cfg.MaxRecordsPerChunk)
	}
	if cfg.NumRetriesOnPartialRecord != 5 || cfg.RetryWaitLen != 20*time.Microsecond {
		t.Errorf("retry policy = (%d, %v), want (5, 20us)", cfg.NumRetriesOnPartialRecord, cfg.RetryWaitLen)
	}
}

func TestWithObserver(t *testing.T) {
	obs := NewMetricsObserver(NewMetrics())
	cfg := NewConfig(WithObserver(obs))
	if cfg.Observer != obs {
		t.Error("WithObserver did not set Config.Observer")
	}
}
