// Command tracedump-sim drives the write-preparation core (package
// tracedump) against simulated shared-memory rings, so its flush-tick
// behavior, loss accounting, and notification scanning can be observed
// without a real producer or io_uring-backed writer attached.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"

	"github.com/yitzikc/tracedump"
	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/logging"
	"github.com/yitzikc/tracedump/internal/record"
)

// cmdArgs is the command line arguments.
type cmdArgs struct {
	NumRings     int
	Threshold    string
	Duration     time.Duration
	TickInterval time.Duration
	ChunkSize    string
	OutputPath   string
	Verbose      bool
}

var args cmdArgs

var rootCmd = &cobra.Command{
	Use:   "tracedump-sim",
	Short: "Simulate producers writing into shared-memory rings and drive the trace dumper's flush loop",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run(args)
	},
}

func init() {
	rootCmd.Flags().IntVar(&args.NumRings, "rings", 4, "number of simulated producer rings")
	rootCmd.Flags().StringVar(&args.Threshold, "threshold", "WARN", "minimum severity for real-time notification (DEBUG, INFO, WARN, ERROR, FATAL)")
	rootCmd.Flags().DurationVar(&args.Duration, "duration", 5*time.Second, "how long to run the simulation")
	rootCmd.Flags().DurationVar(&args.TickInterval, "tick-interval", 50*time.Millisecond, "interval between flush ticks")
	rootCmd.Flags().StringVar(&args.ChunkSize, "max-chunk-size", "64K", "cap on dumpable bytes per ring per tick (e.g. 64K, 1M)")
	rootCmd.Flags().StringVar(&args.OutputPath, "output", "tracedump-sim.bin", "output file for the assembled dump stream")
	rootCmd.Flags().BoolVarP(&args.Verbose, "verbose", "v", false, "enable debug-level logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(a cmdArgs) error {
	threshold, ok := record.ParseSeverity(a.Threshold)
	if !ok {
		return fmt.Errorf("unrecognized severity %q", a.Threshold)
	}

	logConfig := logging.DefaultConfig()
	if a.Verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	out, err := os.Create(a.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	writer := tracedump.NewFileWriter(out)
	metrics := tracedump.NewMetrics()

	var chunkSize datasize.ByteSize
	if err := chunkSize.UnmarshalText([]byte(a.ChunkSize)); err != nil {
		return fmt.Errorf("invalid --max-chunk-size %q: %w", a.ChunkSize, err)
	}
	maxRecordsPerChunk := uint64(chunkSize.Bytes()) / record.Size
	if maxRecordsPerChunk == 0 {
		maxRecordsPerChunk = 1
	}

	cfg := tracedump.NewConfig(
		tracedump.WithThresholdSeverity(threshold),
		tracedump.WithMaxRecordsPerChunk(maxRecordsPerChunk),
		tracedump.WithLogger(logger),
		tracedump.WithObserver(tracedump.NewMetricsObserver(metrics)),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := newSimRegistry(a.NumRings)
	dumper := tracedump.NewDumper(registry, writer, cfg)

	logger.Info("starting simulation", "rings", a.NumRings, "threshold", threshold.String(), "output", a.OutputPath)

	for _, r := range registry.rings {
		go r.produce(ctx)
	}

	ctx, cancel2 := context.WithTimeout(ctx, a.Duration)
	defer cancel2()

	ticker := time.NewTicker(a.TickInterval)
	defer ticker.Stop()

	clockStart := time.Now()
	for {
		select {
		case <-ctx.Done():
			snap := metrics.Snapshot()
			logger.Info("simulation complete",
				"flush_ticks", snap.FlushTicks,
				"records_dumped", snap.RecordsDumped,
				"records_lost", snap.RecordsLost,
				"traces_notified", snap.TracesNotified,
				"traces_skipped_torn", snap.TracesSkippedTorn)
			return nil
		case <-ticker.C:
			now := uint64(time.Since(clockStart).Nanoseconds())
			if err := dumper.RunTick(now); err != nil {
				logger.Error("flush tick failed", "error", err)
			}
		}
	}
}

// simRing is a self-contained, in-process stand-in for a producer's
// shared-memory ring: a background goroutine appends records and advances
// the committed counter with a single atomic store, exactly the
// producer-side contract the real write-preparation core depends on
// (spec.md §4.3 step 1 treats Committed() as the sole synchronization
// primitive with the producer).
type simRing struct {
	desc      interfaces.RingDescriptor
	storage   []record.Record
	committed atomic.Uint64
	reader    *interfaces.ReaderState
	rng       *rand.Rand
}

func newSimRing(id uint32, capacity uint32) *simRing {
	r := &simRing{
		desc: interfaces.RingDescriptor{
			ID:           id,
			Capacity:     capacity,
			CapacityMask: capacity - 1,
			SeverityTag:  record.SeverityInfo,
			ProducerPID:  uint32(os.Getpid()),
		},
		storage: make([]record.Record, capacity),
		reader:  &interfaces.ReaderState{},
		rng:     rand.New(rand.NewSource(int64(id) + 1)),
	}
	r.committed.Store(^uint64(0))
	return r
}

func (r *simRing) Descriptor() interfaces.RingDescriptor { return r.desc }
func (r *simRing) Committed() uint64                     { return r.committed.Load() }
func (r *simRing) Storage() []record.Record              { return r.storage }

// produce writes one logical trace (1-3 physical records sharing a
// timestamp/thread/severity) per iteration, committing the counter only
// after every record in the trace is fully written, so a reader never
// observes a torn trace unless it races a write in progress.
func (r *simRing) produce(ctx context.Context) {
	var counter uint64
	mask := r.desc.CapacityMask

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ts := uint64(time.Now().UnixNano())
		severity := record.Severity(1 + r.rng.Intn(int(record.SeverityFatal)))
		traceLen := 1 + r.rng.Intn(3)

		for i := 0; i < traceLen; i++ {
			idx := uint32(counter) & mask
			term := record.Termination(0)
			if i == 0 {
				term |= record.TerminationFirst
			}
			if i == traceLen-1 {
				term |= record.TerminationLast
			}
			r.storage[idx] = record.Record{
				RecType:     record.TypeTyped,
				Severity:    severity,
				Termination: term,
				Timestamp:   ts,
				ThreadID:    1,
				ProcessID:   r.desc.ProducerPID,
			}
			counter++
		}
		r.committed.Store(counter - 1)

		time.Sleep(time.Millisecond)
	}
}

type simRegistry struct {
	rings []*simRing
}

func newSimRegistry(n int) *simRegistry {
	reg := &simRegistry{}
	for i := 0; i < n; i++ {
		reg.rings = append(reg.rings, newSimRing(uint32(i), 1<<10))
	}
	return reg
}

func (reg *simRegistry) Rings() []interfaces.RingHandle {
	handles := make([]interfaces.RingHandle, len(reg.rings))
	for i, r := range reg.rings {
		handles[i] = interfaces.RingHandle{Ring: r, Reader: r.reader}
	}
	return handles
}
