package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"go.skia.org/infra/go/skerr"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/storage"
	"github.com/zakerinasab/perfetto/variadic"
)

// fixtureEvent is one line of the line-delimited JSON fixture format:
// a pre-parsed event, not a binary trace record. Decoding a binary
// trace remains out of scope; this format exists purely to exercise
// the storage core from a debug CLI.
type fixtureEvent struct {
	Kind string `json:"kind"`

	Tid  int64 `json:"tid"`
	Pid  int64 `json:"pid"`

	Track string `json:"track"`

	Ts   int64  `json:"ts"`
	Dur  int64  `json:"dur"`
	Cat  string `json:"cat"`
	Name string `json:"name"`

	Value float64 `json:"value"`

	Ref     int64  `json:"ref"`
	RefType string `json:"ref_type"`

	Cpu int64 `json:"cpu"`

	Key      string `json:"key"`
	IntValue int64  `json:"int_value"`

	Args map[string]any `json:"args"`
}

var refTypeByName = map[string]ids.RefType{
	"no_ref":   ids.RefNoRef,
	"utid":     ids.RefUtid,
	"cpu_id":   ids.RefCpuId,
	"irq":      ids.RefIrq,
	"soft_irq": ids.RefSoftIrq,
	"upid":     ids.RefUpid,
	"gpu_id":   ids.RefGpuId,
	"track":    ids.RefTrack,
}

// loader accumulates the id mappings a fixture's references need:
// raw tid/pid values and track names are not stable ids, so the loader
// resolves them into the registry/track ids the storage core expects.
type loader struct {
	storage *storage.TraceStorage

	utidByTid   map[int64]ids.UniqueTid
	upidByPid   map[int64]ids.UniquePid
	trackByName map[string]ids.TrackId
}

func newLoader(s *storage.TraceStorage) *loader {
	return &loader{
		storage:     s,
		utidByTid:   map[int64]ids.UniqueTid{},
		upidByPid:   map[int64]ids.UniquePid{},
		trackByName: map[string]ids.TrackId{},
	}
}

// loadFixture reads line-delimited JSON events from r and applies each
// to s, returning the number of events applied.
func loadFixture(s *storage.TraceStorage, r io.Reader) (int, error) {
	l := newLoader(s)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev fixtureEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return count, skerr.Wrapf(err, "decoding fixture line %d", lineNo)
		}
		if err := l.apply(ev); err != nil {
			return count, skerr.Wrapf(err, "applying fixture line %d (kind=%s)", lineNo, ev.Kind)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, skerr.Wrap(err)
	}
	l.storage.ArgsTracker().Flush()
	return count, nil
}

func (l *loader) apply(ev fixtureEvent) error {
	switch ev.Kind {
	case "thread":
		utid := l.storage.Threads().AddEmptyThread(ev.Tid)
		l.utidByTid[ev.Tid] = utid
		return nil
	case "process":
		upid := l.storage.Processes().AddEmptyProcess(ev.Pid)
		l.upidByPid[ev.Pid] = upid
		return nil
	case "thread_track":
		utid, ok := l.utidByTid[ev.Tid]
		if !ok {
			return fmt.Errorf("thread_track references unknown tid %d", ev.Tid)
		}
		trackId := l.storage.Tracks().InsertThreadTrack(l.storage.InternString([]byte(ev.Name)), utid)
		l.trackByName[ev.Track] = trackId
		return nil
	case "slice":
		trackId, ok := l.trackByName[ev.Track]
		if !ok {
			return fmt.Errorf("slice references unknown track %q", ev.Track)
		}
		cat := l.storage.InternString([]byte(ev.Cat))
		name := l.storage.InternString([]byte(ev.Name))
		sliceId := l.storage.Slices().Insert(ev.Ts, ev.Dur, trackId, cat, name, 0, 0, 0)
		return l.applyArgs(ids.TableNestableSlices, ids.RowId(sliceId), ev.Args)
	case "counter":
		trackId, ok := l.trackByName[ev.Track]
		if !ok {
			return fmt.Errorf("counter references unknown track %q", ev.Track)
		}
		counterId := l.storage.Counters().Insert(ev.Ts, trackId, ev.Value)
		return l.applyArgs(ids.TableCounterValues, ids.RowId(counterId), ev.Args)
	case "instant":
		refType, ok := refTypeByName[ev.RefType]
		if !ok {
			refType = ids.RefNoRef
		}
		name := l.storage.InternString([]byte(ev.Name))
		instantId := l.storage.Instants().Insert(ev.Ts, name, ev.Ref, refType)
		return l.applyArgs(ids.TableInstants, ids.RowId(instantId), ev.Args)
	case "raw_event":
		utid := l.utidByTid[ev.Tid]
		name := l.storage.InternString([]byte(ev.Name))
		rowId := l.storage.RawEvents().Insert(ev.Ts, name, uint32(ev.Cpu), utid)
		return l.applyArgs(ids.TableRawEvents, ids.RowId(rowId), ev.Args)
	case "metadata":
		keyName := l.storage.InternString([]byte(ev.Key))
		rowId := l.storage.Metadata().InsertInt(keyName, ev.IntValue)
		return l.applyArgs(ids.TableMetadataTable, ids.RowId(rowId), ev.Args)
	default:
		return fmt.Errorf("unknown fixture event kind %q", ev.Kind)
	}
}

// applyArgs interns each (key, value) pair in raw and buffers it into
// the args tracker against (table, row). JSON numbers decode as
// float64; values that are mathematically integral are stored as
// Variadic integers and other numbers as reals. Booleans are stored as
// booleans, strings as interned strings, and JSON null as the empty
// string.
func (l *loader) applyArgs(table ids.TableId, row ids.RowId, raw map[string]any) error {
	for key, value := range raw {
		keyId := l.storage.InternString([]byte(key))
		variadicValue, err := toVariadic(l.storage, value)
		if err != nil {
			return skerr.Wrapf(err, "arg %q", key)
		}
		l.storage.ArgsTracker().AddArg(table, row, keyId, keyId, variadicValue)
	}
	return nil
}

func toVariadic(s *storage.TraceStorage, value any) (variadic.Variadic, error) {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return variadic.Integer(int64(v)), nil
		}
		return variadic.Real(v), nil
	case bool:
		return variadic.Boolean(v), nil
	case string:
		return variadic.String(s.InternString([]byte(v))), nil
	case nil:
		return variadic.String(ids.NullStringId), nil
	default:
		return variadic.Variadic{}, fmt.Errorf("unsupported arg value type %T", value)
	}
}
