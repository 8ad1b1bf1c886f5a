// Package clock provides the monotonic and wall-clock timestamp sources
// used for chunk and dump-header framing (spec.md §4.1).
//
// Grounded on original_source/trace_clock.c: trace_get_nsec (realtime),
// trace_get_nsec_monotonic, trace_get_walltime_ns (microsecond wall clock
// expanded to nanoseconds), and trace_init_timespec.
package clock

import (
	"math"
	"time"

	"github.com/yitzikc/tracedump/internal/interfaces"
)

// SentinelFailureNS is returned when a monotonic/realtime read fails.
// Equivalent to the original's TRACE_FOREVER: the timestamp is
// informational for the framer, so callers log and continue rather than
// aborting the flush.
const SentinelFailureNS uint64 = math.MaxUint64

// monotonicBase anchors NowMonotonicNS to the runtime's monotonic clock.
var monotonicBase = time.Now()

// Clock is the monotonic/wall timestamp source consumed by the Flush
// Orchestrator and ChunkFramer.
type Clock struct{}

// New returns a Clock backed by the Go runtime's monotonic and wall clock.
func New() Clock { return Clock{} }

// NowMonotonicNS returns a monotonic nanosecond timestamp, used for
// framing order. Go's runtime clock does not fail the way clock_gettime
// can, so this always succeeds; NowMonotonicNSLogged exists for call
// sites that want parity with the original's failure-handling shape.
func (Clock) NowMonotonicNS() uint64 {
	return uint64(time.Since(monotonicBase).Nanoseconds())
}

// NowMonotonicNSLogged mirrors get_nsec_monotonic: on failure it logs and
// returns the sentinel, letting the caller proceed with an informational
// timestamp (spec.md §4.1, §7 "Clock unavailable").
func (c Clock) NowMonotonicNSLogged(logger interfaces.Logger) uint64 {
	now := c.NowMonotonicNS()
	if now == SentinelFailureNS {
		logger.Error("trace dumper failed to read monotonic clock")
	}
	return now
}

// NowRealtimeNS returns a wall-clock nanosecond timestamp from
// CLOCK_REALTIME (trace_get_nsec in the original).
func (Clock) NowRealtimeNS() uint64 {
	return uint64(time.Now().UnixNano())
}

// NowWalltimeNS returns a microsecond-resolution wall clock reading
// expanded to nanoseconds (trace_get_walltime_ns in the original, which
// scales a struct timeval's microseconds up).
func (Clock) NowWalltimeNS() uint64 {
	us := time.Now().UnixMicro()
	return uint64(us) * 1000
}

// Split materializes a nanosecond count into (seconds, nanoseconds),
// mirroring trace_init_timespec.
func Split(ns uint64) (sec uint64, nsec uint64) {
	const nsPerSec = 1_000_000_000
	return ns / nsPerSec, ns % nsPerSec
}
