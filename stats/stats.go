// Package stats implements a fixed-size counter array: each key is
// declared Single (a scalar int64) or Indexed (an int-keyed map of
// int64), and mismatching the declared kind is a programmer error that
// aborts the process.
package stats

import (
	"context"
	"fmt"

	"go.skia.org/infra/go/metrics2"
	"go.skia.org/infra/go/now"
	"go.skia.org/infra/go/sklog"
)

// Kind says whether a Key is a scalar counter or an int-indexed map of
// counters.
type Kind uint8

const (
	// Single keys hold one scalar int64.
	Single Kind = iota
	// Indexed keys hold a map from an arbitrary int index to an int64.
	Indexed
)

// Key names one counter slot. Keys are a closed, compile-time
// enumeration; add new ones here rather than constructing them
// dynamically.
type Key int

const (
	// AndroidLogNumFailed counts Android log lines that failed to parse.
	AndroidLogNumFailed Key = iota
	// TraceParserInvalidCpu counts events that referenced an out-of-range
	// CPU index.
	TraceParserInvalidCpu
	// MismatchedSchedSwitchOut counts sched_switch events whose prior
	// state on the same CPU didn't match.
	MismatchedSchedSwitchOut
	// FtraceCpuFailures is indexed by CPU number and counts ftrace parse
	// failures attributed to that CPU.
	FtraceCpuFailures
	// ArgsTrackerFlushDurationNs holds cumulative wall time spent inside
	// ArgsTracker.Flush, as recorded by a ScopedStatsTracer the caller
	// wraps around Flush; the tracker does not record it on its own.
	ArgsTrackerFlushDurationNs

	numKeys
)

var kinds = [numKeys]Kind{
	AndroidLogNumFailed:        Single,
	TraceParserInvalidCpu:      Single,
	MismatchedSchedSwitchOut:   Single,
	FtraceCpuFailures:          Indexed,
	ArgsTrackerFlushDurationNs: Single,
}

var names = [numKeys]string{
	AndroidLogNumFailed:        "android_log_num_failed",
	TraceParserInvalidCpu:      "trace_parser_invalid_cpu",
	MismatchedSchedSwitchOut:   "mismatched_sched_switch_out",
	FtraceCpuFailures:          "ftrace_cpu_failures",
	ArgsTrackerFlushDurationNs: "args_tracker_flush_duration_ns",
}

type entry struct {
	value   int64
	indexed map[int]int64
}

// Stats is a fixed array of counters, one slot per Key. The zero value
// is ready to use.
type Stats struct {
	entries [numKeys]entry

	// counters mirrors every Single key into a process-wide metric so
	// ingestion anomalies are observable without querying the trace
	// itself.
	counters map[Key]metrics2.Counter
}

// New returns an empty Stats, with every Single key mirrored into a
// metrics2 counter tagged with traceName for multi-trace processes.
func New(traceName string) *Stats {
	s := &Stats{counters: make(map[Key]metrics2.Counter, numKeys)}
	for k := Key(0); k < numKeys; k++ {
		if kinds[k] != Single {
			continue
		}
		s.counters[k] = metrics2.GetCounter(
			fmt.Sprintf("trace_storage_%s", names[k]),
			map[string]string{"trace": traceName},
		)
	}
	return s
}

func (s *Stats) mustBeKind(key Key, want Kind) {
	if int(key) < 0 || int(key) >= int(numKeys) {
		sklog.Errorf("stats: key %d is out of range", key)
		panic("stats: key out of range")
	}
	if kinds[key] != want {
		sklog.Errorf("stats: key %s is not a %v stat", names[key], want)
		panic("stats: wrong stat kind for key")
	}
}

// SetStats sets a Single key to value. Calling this on an Indexed key
// aborts the process.
func (s *Stats) SetStats(key Key, value int64) {
	s.mustBeKind(key, Single)
	delta := value - s.entries[key].value
	s.entries[key].value = value
	if c, ok := s.counters[key]; ok {
		c.Inc(delta)
	}
}

// IncrementStats adds delta to a Single key. delta has no default: a
// plain increment passes 1. Calling this on an Indexed key aborts the
// process.
func (s *Stats) IncrementStats(key Key, delta int64) {
	s.mustBeKind(key, Single)
	s.entries[key].value += delta
	if c, ok := s.counters[key]; ok {
		c.Inc(delta)
	}
}

// SetIndexedStats sets the counter at index on an Indexed key. Calling
// this on a Single key aborts the process.
func (s *Stats) SetIndexedStats(key Key, index int, value int64) {
	s.mustBeKind(key, Indexed)
	if s.entries[key].indexed == nil {
		s.entries[key].indexed = make(map[int]int64)
	}
	s.entries[key].indexed[index] = value
}

// IncrementIndexedStats adds delta to the counter at index on an
// Indexed key. delta has no default: a plain increment passes 1.
// Calling this on a Single key aborts the process.
func (s *Stats) IncrementIndexedStats(key Key, index int, delta int64) {
	s.mustBeKind(key, Indexed)
	if s.entries[key].indexed == nil {
		s.entries[key].indexed = make(map[int]int64)
	}
	s.entries[key].indexed[index] += delta
}

// Value returns the scalar value of a Single key.
func (s *Stats) Value(key Key) int64 {
	s.mustBeKind(key, Single)
	return s.entries[key].value
}

// IndexedValues returns a copy of the index->value map of an Indexed
// key.
func (s *Stats) IndexedValues(key Key) map[int]int64 {
	s.mustBeKind(key, Indexed)
	out := make(map[int]int64, len(s.entries[key].indexed))
	for k, v := range s.entries[key].indexed {
		out[k] = v
	}
	return out
}

// ScopedStatsTracer records (end_wall - start_wall) into key when Stop
// is called. It plays the role a move-only RAII guard plays in C++;
// Go has no destructive move, so Release is the explicit way to mark a
// copy as moved-from and suppress its recording.
type ScopedStatsTracer struct {
	storage   *Stats
	key       Key
	startWall func() int64
	start     int64
	released  bool
}

// NewScopedStatsTracer starts a timer that will add the elapsed wall
// time, in nanoseconds, to key when Stop is called.
func NewScopedStatsTracer(ctx context.Context, storage *Stats, key Key) *ScopedStatsTracer {
	return &ScopedStatsTracer{
		storage: storage,
		key:     key,
		start:   now.Now(ctx).UnixNano(),
		startWall: func() int64 {
			return now.Now(ctx).UnixNano()
		},
	}
}

// Stop records the elapsed time and disables further recording. Safe
// to call more than once; only the first call has an effect.
func (t *ScopedStatsTracer) Stop() {
	if t.released || t.storage == nil {
		return
	}
	t.released = true
	elapsed := t.startWall() - t.start
	t.storage.IncrementStats(t.key, elapsed)
}

// Release suppresses the recording entirely: after Release, Stop is a
// no-op, the same as a moved-from RAII guard.
func (t *ScopedStatsTracer) Release() {
	t.released = true
}
