package args

import (
	"sort"

	"go.skia.org/infra/go/sklog"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/variadic"
)

// Destinations is the narrow set of column setters the tracker needs in
// order to write a computed ArgSetId back into its destination table,
// selected by TableId. The storage package's aggregate implements this
// by dispatching to the concrete table that owns each column.
type Destinations interface {
	SetRawEventArgSetId(row ids.RowId, id ids.ArgSetId)
	SetCounterArgSetId(row ids.RowId, id ids.ArgSetId)
	SetInstantArgSetId(row ids.RowId, id ids.ArgSetId)
	SetSliceArgSetId(row ids.RowId, id ids.ArgSetId)
	SetTrackSourceArgSetId(row ids.RowId, id ids.ArgSetId)
	SetVulkanAllocArgSetId(row ids.RowId, id ids.ArgSetId)
	SetMetadataIntValue(row ids.RowId, id ids.ArgSetId)
}

// Tracker batches per-row arguments during parsing and, on Flush,
// groups them by destination and writes the resulting ArgSetId back
// into the owning table. It is a simple Empty <-> Buffering state
// machine: AddArg moves it to Buffering, Flush returns it to Empty.
type Tracker struct {
	store *Store
	dest  Destinations
	buf   []Arg
}

// NewTracker returns a Tracker that flushes into store and writes
// assigned set ids back via dest.
func NewTracker(store *Store, dest Destinations) *Tracker {
	return &Tracker{store: store, dest: dest}
}

// AddArg appends one argument to the internal buffer. It never
// allocates an argument set; that only happens on Flush.
func (t *Tracker) AddArg(table ids.TableId, row ids.RowId, flatKey, key ids.StringId, value variadic.Variadic) {
	t.buf = append(t.buf, Arg{
		FlatKey: flatKey,
		Key:     key,
		Value:   value,
		Table:   table,
		Row:     row,
	})
}

// Bind returns a BoundInserter pre-bound to (table, row), so repeated
// AddArg calls for the same row don't need to repeat the destination.
func (t *Tracker) Bind(table ids.TableId, row ids.RowId) BoundInserter {
	return BoundInserter{tracker: t, table: table, row: row}
}

// Flush drains the buffer: it stably sorts by (table, row) so that
// entries targeting the same row become contiguous (the sort must be
// stable: within a run, insertion order is preserved and defines set
// identity), then interns one argument set per contiguous run and
// writes the assigned id into the destination table.
//
// The comparator here is the full lexicographic order on (table, row),
// not a conjunction of the two field comparisons. A conjunction isn't a
// strict weak order and can fail to group every row of one destination
// into a single contiguous run after sorting.
func (t *Tracker) Flush() {
	if len(t.buf) == 0 {
		return
	}
	sort.SliceStable(t.buf, func(i, j int) bool {
		a, b := t.buf[i], t.buf[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		return a.Row < b.Row
	})

	for i := 0; i < len(t.buf); {
		table := t.buf[i].Table
		row := t.buf[i].Row
		j := i + 1
		for j < len(t.buf) && t.buf[j].Table == table && t.buf[j].Row == row {
			j++
		}

		setId := t.store.AddArgSet(t.buf, i, j)
		switch table {
		case ids.TableRawEvents:
			t.dest.SetRawEventArgSetId(row, setId)
		case ids.TableCounterValues:
			t.dest.SetCounterArgSetId(row, setId)
		case ids.TableInstants:
			t.dest.SetInstantArgSetId(row, setId)
		case ids.TableNestableSlices:
			t.dest.SetSliceArgSetId(row, setId)
		case ids.TableTrack:
			t.dest.SetTrackSourceArgSetId(row, setId)
		case ids.TableVulkanMemoryAllocation:
			t.dest.SetVulkanAllocArgSetId(row, setId)
		case ids.TableMetadataTable:
			// Metadata rows have no dedicated arg_set_id column; the
			// assigned set id overwrites int_value instead.
			t.dest.SetMetadataIntValue(row, setId)
		case ids.TableInvalid, ids.TableSched:
			sklog.Errorf("args.Tracker.Flush: unsupported destination table %s", table)
			panic("args: cannot flush into TableInvalid or TableSched")
		default:
			sklog.Errorf("args.Tracker.Flush: unknown destination table %s", table)
			panic("args: unknown destination table")
		}

		i = j
	}
	t.buf = t.buf[:0]
}

// Close flushes any buffered arguments. Go has no destructor to do this
// implicitly, so callers must call it at the end of every parse stage,
// and again before the tracker (and the storage it feeds) is torn down.
func (t *Tracker) Close() {
	t.Flush()
}

// BoundInserter pre-binds a (table, row) destination so a parser
// processing one event doesn't have to repeat it on every AddArg call.
// It holds no resource of its own; letting it go out of scope has no
// side effect beyond forgetting the binding.
type BoundInserter struct {
	tracker *Tracker
	table   ids.TableId
	row     ids.RowId
}

// AddArg appends one argument targeting the bound (table, row).
func (b BoundInserter) AddArg(flatKey, key ids.StringId, value variadic.Variadic) {
	b.tracker.AddArg(b.table, b.row, flatKey, key, value)
}
