// Package notify scans a ring's dumpable window for complete logical
// traces at or above a severity threshold and appends their byte ranges
// to a secondary scatter/gather list, without blocking the producer
// (spec.md §4.5).
//
// Grounded line-for-line on
// original_source/trace_dumper/write_prep.c:add_warn_records_to_iov,
// including the mid-trace wrap split (lines 190-201) and the three-tier
// DEBUG/INFO/WARN logging on wrap, retry, and exhausted retry.
package notify

import (
	"time"

	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/iovec"
	"github.com/yitzikc/tracedump/internal/record"
	"github.com/yitzikc/tracedump/internal/ringview"
)

// RetryPolicy controls the bounded retry used when a trace appears
// unterminated mid-scan (the producer may simply be mid-write). Sleep is
// injectable so tests can run without real delay (spec.md §9, "should be
// replaceable by a test-time fake clock").
type RetryPolicy struct {
	MaxRetries int
	Sleep      func(time.Duration)
	Wait       time.Duration
}

// DefaultRetryPolicy mirrors the original's num_retries_on_partial_record
// = 3, retry_wait_len = 10us.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		Sleep:      time.Sleep,
		Wait:       10 * time.Microsecond,
	}
}

// Scanner walks a ring's dumpable window and appends complete traces of
// interest to a notification iovec.List.
type Scanner struct {
	Logger   interfaces.Logger
	Retry    RetryPolicy
	Observer interfaces.Observer // optional; nil means no reporting
}

// Scan walks the count records starting at startIdx, appending one or two
// iovec entries (two if a trace's span wraps the ring boundary) per
// complete trace whose starting record is Typed, First, and severity >=
// threshold. It never appends a partial trace (spec.md §4.5).
//
// retriesLeft is shared across the whole scan, not reset per position
// except on a successful append — matching the original's behavior
// (spec.md §9, "open question": once retries are exhausted for one trace,
// later traces in the same scan inherit zero retries until one succeeds).
func (s Scanner) Scan(desc interfaces.RingDescriptor, storage []record.Record, startIdx uint32, count uint64, threshold record.Severity, out *iovec.List) {
	if count == 0 {
		return
	}
	capacity := desc.Capacity
	view := ringview.New(storage, desc.CapacityMask)
	retriesLeft := s.Retry.MaxRetries

	var recsCovered uint64
	for i := uint64(0); i < count; i += recsCovered {
		idx := view.Index(uint64(startIdx) + i)
		rec := view.SlotAt(uint64(startIdx) + i)

		if !rec.IsTraceStart(threshold) {
			recsCovered = 1
			continue
		}

		startingRec := rec
		var steps uint32
		for {
			cur := view.SlotAt(uint64(idx) + uint64(steps))
			ended := cur.EndsTrace(startingRec)
			steps++
			if ended || i+uint64(steps) >= count {
				break
			}
		}
		recsCovered = uint64(steps)

		lastRec := view.SlotAt(uint64(idx) + uint64(steps) - 1)
		if !lastRec.SameTrace(startingRec) || lastRec.Termination&record.TerminationLast == 0 {
			if retriesLeft > 0 {
				s.Logger.Info("unterminated record found while scanning for notifications, scan will be retried",
					"retries_left", retriesLeft, "start_idx", startIdx, "i", i, "recs_covered", recsCovered)
				retriesLeft--
				recsCovered = 0
				s.Retry.Sleep(s.Retry.Wait)
				continue
			}
			s.Logger.Warn("skipped a partial record while building the notification iov of severity",
				"severity", startingRec.Severity, "start_idx", startIdx, "i", i, "recs_covered", recsCovered, "count", count)
			if s.Observer != nil {
				s.Observer.ObserveNotification(startingRec.Severity, true)
			}
			continue
		}

		retriesLeft = s.Retry.MaxRetries
		appendTraceSpan(s.Logger, out, storage, idx, steps, capacity)
		if s.Observer != nil {
			s.Observer.ObserveNotification(startingRec.Severity, false)
		}
	}
}

// appendTraceSpan appends the [start, start+n) slot range to out,
// splitting into two entries if the range wraps the ring boundary
// (write_prep.c lines 190-201).
func appendTraceSpan(logger interfaces.Logger, out *iovec.List, storage []record.Record, start uint32, n uint32, capacity uint32) {
	if start+n <= capacity {
		out.Append(record.AsBytes(storage[start : start+n]))
		return
	}
	firstLen := capacity - start
	logger.Debug("buffer wrap-around while scanning for notifications", "recs_covered", firstLen, "start_idx", start)
	out.Append(record.AsBytes(storage[start:capacity]))
	out.Append(record.AsBytes(storage[0 : n-firstLen]))
}
