package storage

import "github.com/zakerinasab/perfetto/ids"

// SliceTable holds the Slice table: nestable begin/end spans on a
// track. Unterminated slices use Dur == -1 as a sentinel; the same
// convention applies to stack_id/parent_stack_id, which use 0 to mean
// "no stack".
type SliceTable struct {
	ts            Column[int64]
	dur           Column[int64]
	trackId       Column[ids.TrackId]
	category      Column[ids.StringId]
	name          Column[ids.StringId]
	depth         Column[uint32]
	stackId       Column[uint32]
	parentStackId Column[uint32]
	argSetId      Column[ids.ArgSetId]
}

// NewSliceTable returns an empty Slice table.
func NewSliceTable() *SliceTable {
	return &SliceTable{
		ts:            NewColumn[int64]("ts"),
		dur:           NewColumn[int64]("dur"),
		trackId:       NewColumn[ids.TrackId]("track_id"),
		category:      NewColumn[ids.StringId]("category"),
		name:          NewColumn[ids.StringId]("name"),
		depth:         NewColumn[uint32]("depth"),
		stackId:       NewColumn[uint32]("stack_id"),
		parentStackId: NewColumn[uint32]("parent_stack_id"),
		argSetId:      NewColumn[ids.ArgSetId]("arg_set_id"),
	}
}

// Insert appends a slice row and returns its id.
func (t *SliceTable) Insert(ts, dur int64, trackId ids.TrackId, category, name ids.StringId, depth, stackId, parentStackId uint32) ids.SliceId {
	t.ts.Append(ts)
	t.dur.Append(dur)
	t.trackId.Append(trackId)
	t.category.Append(category)
	t.name.Append(name)
	t.depth.Append(depth)
	t.stackId.Append(stackId)
	t.parentStackId.Append(parentStackId)
	t.argSetId.Append(ids.InvalidArgSetId)
	return ids.SliceId(t.ts.Len() - 1)
}

// SetDur overwrites the dur column, e.g. when a begin slice is closed
// by a matching end event.
func (t *SliceTable) SetDur(id ids.SliceId, dur int64) { t.dur.Set(int(id), dur) }

// SetArgSetId is called back by the args tracker on flush
// (TableId.NestableSlices → arg_set_id).
func (t *SliceTable) SetArgSetId(id ids.SliceId, argSetId ids.ArgSetId) {
	t.argSetId.Set(int(id), argSetId)
}

// Ts returns the ts column value for row.
func (t *SliceTable) Ts(id ids.SliceId) int64 { return t.ts.Get(int(id)) }

// Dur returns the dur column value for row; -1 means unterminated.
func (t *SliceTable) Dur(id ids.SliceId) int64 { return t.dur.Get(int(id)) }

// TrackId returns the track_id column value for row.
func (t *SliceTable) TrackId(id ids.SliceId) ids.TrackId { return t.trackId.Get(int(id)) }

// ArgSetId returns the arg_set_id column value for row.
func (t *SliceTable) ArgSetId(id ids.SliceId) ids.ArgSetId { return t.argSetId.Get(int(id)) }

// RowCount returns the number of slices.
func (t *SliceTable) RowCount() int { return t.ts.Len() }

// Columns returns the Slice table's schema.
func (t *SliceTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.ts.Descriptor(),
		t.dur.Descriptor(),
		t.trackId.Descriptor(),
		t.category.Descriptor(),
		t.name.Descriptor(),
		t.depth.Descriptor(),
		t.stackId.Descriptor(),
		t.parentStackId.Descriptor(),
		t.argSetId.Descriptor(),
	}
}

// ThreadSliceRow is one row of the ThreadSlices extension table: it
// shares SliceId's row-id space rather than allocating its own.
type ThreadSliceRow struct {
	SliceId      ids.SliceId
	ThreadTs     int64
	ThreadDur    int64
	ThreadICount int64
	ThreadIDelta int64
}

// ThreadSliceTable is the ThreadSlices extension, keyed by SliceId.
type ThreadSliceTable struct {
	bySlice map[ids.SliceId]ThreadSliceRow
}

// NewThreadSliceTable returns an empty ThreadSlices extension.
func NewThreadSliceTable() *ThreadSliceTable {
	return &ThreadSliceTable{bySlice: make(map[ids.SliceId]ThreadSliceRow)}
}

// Insert records thread-scoped timing for an existing slice row.
func (t *ThreadSliceTable) Insert(row ThreadSliceRow) {
	t.bySlice[row.SliceId] = row
}

// Get returns the thread-scoped timing for sliceId, and whether a row
// was recorded for it.
func (t *ThreadSliceTable) Get(sliceId ids.SliceId) (ThreadSliceRow, bool) {
	row, ok := t.bySlice[sliceId]
	return row, ok
}

// VirtualTrackSliceRow is one row of the VirtualTrackSlices extension
// table, keyed by SliceId the same way ThreadSliceRow is.
type VirtualTrackSliceRow struct {
	SliceId      ids.SliceId
	ThreadTs     int64
	ThreadDur    int64
	ThreadICount int64
	ThreadIDelta int64
}

// VirtualTrackSliceTable is the VirtualTrackSlices extension.
type VirtualTrackSliceTable struct {
	bySlice map[ids.SliceId]VirtualTrackSliceRow
}

// NewVirtualTrackSliceTable returns an empty VirtualTrackSlices
// extension.
func NewVirtualTrackSliceTable() *VirtualTrackSliceTable {
	return &VirtualTrackSliceTable{bySlice: make(map[ids.SliceId]VirtualTrackSliceRow)}
}

// Insert records virtual-track-scoped timing for an existing slice
// row.
func (t *VirtualTrackSliceTable) Insert(row VirtualTrackSliceRow) {
	t.bySlice[row.SliceId] = row
}

// Get returns the virtual-track-scoped timing for sliceId, and whether
// a row was recorded for it.
func (t *VirtualTrackSliceTable) Get(sliceId ids.SliceId) (VirtualTrackSliceRow, bool) {
	row, ok := t.bySlice[sliceId]
	return row, ok
}
