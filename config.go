package tracedump

import (
	"time"

	"github.com/yitzikc/tracedump/internal/constants"
	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/logging"
	"github.com/yitzikc/tracedump/internal/record"
)

// Config holds the configuration surface the write-preparation core
// consumes (spec.md §6).
type Config struct {
	// ThresholdSeverity is the minimum severity the notification scanner
	// considers.
	ThresholdSeverity record.Severity

	// MaxRecordsPerChunk bounds delta.Total per ring per tick.
	MaxRecordsPerChunk uint64

	// NumRetriesOnPartialRecord and RetryWaitLen configure the
	// notification scanner's torn-tail retry policy.
	NumRetriesOnPartialRecord int
	RetryWaitLen              time.Duration

	// Logger receives diagnostics for every anomaly spec.md §7 names.
	Logger interfaces.Logger

	// Observer receives per-tick metrics; may be nil.
	Observer interfaces.Observer
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		ThresholdSeverity:         record.Severity(constants.DefaultThresholdSeverity),
		MaxRecordsPerChunk:        constants.DefaultMaxRecordsPerChunk,
		NumRetriesOnPartialRecord: constants.NumRetriesOnPartialRecord,
		RetryWaitLen:              constants.RetryWaitLen,
		Logger:                    logging.Default(),
	}
}

// Option configures a Config via functional options.
type Option func(*Config)

// WithThresholdSeverity sets the notification scanner's minimum severity.
func WithThresholdSeverity(sev record.Severity) Option {
	return func(c *Config) { c.ThresholdSeverity = sev }
}

// WithMaxRecordsPerChunk sets the per-ring per-tick record cap.
func WithMaxRecordsPerChunk(n uint64) Option {
	return func(c *Config) { c.MaxRecordsPerChunk = n }
}

// WithRetryPolicy overrides the torn-tail retry count and wait.
func WithRetryPolicy(retries int, wait time.Duration) Option {
	return func(c *Config) {
		c.NumRetriesOnPartialRecord = retries
		c.RetryWaitLen = wait
	}
}

// WithLogger overrides the diagnostic sink.
func WithLogger(l interfaces.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithObserver attaches a metrics observer.
func WithObserver(o interfaces.Observer) Option {
	return func(c *Config) { c.Observer = o }
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Option) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}
