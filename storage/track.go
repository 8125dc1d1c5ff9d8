package storage

import "github.com/zakerinasab/perfetto/ids"

// TrackKind discriminates the Track table's child extension: the Go
// stand-in for a class hierarchy of ThreadTrack, ProcessTrack,
// GpuTrack, CounterTrack and CounterTrack's own children.
type TrackKind uint8

const (
	TrackKindPlain TrackKind = iota
	TrackKindThread
	TrackKindProcess
	TrackKindGpu
	TrackKindCounter
)

// CounterTrackKind further discriminates CounterTrack's own children
// (e.g. a thread-scoped counter vs. a process-scoped one).
type CounterTrackKind uint8

const (
	CounterTrackKindPlain CounterTrackKind = iota
	CounterTrackKindThread
	CounterTrackKindProcess
	CounterTrackKindIrq
)

// TrackTable holds the Track table and every child table's extension
// columns, all keyed by the same TrackId row-id space: a child row
// shares its parent's id rather than allocating its own.
type TrackTable struct {
	nameId       Column[ids.StringId]
	sourceArgSet Column[ids.ArgSetId]
	kind         Column[TrackKind]

	// ThreadTrack extension, valid where kind == TrackKindThread.
	threadUtid Column[ids.UniqueTid]

	// ProcessTrack extension, valid where kind == TrackKindProcess.
	processUpid Column[ids.UniquePid]

	// GpuTrack extension, valid where kind == TrackKindGpu.
	gpuId Column[uint32]

	// CounterTrack extension, valid where kind == TrackKindCounter.
	counterUnitId  Column[ids.StringId]
	counterKind    Column[CounterTrackKind]
	counterRefUtid Column[ids.UniqueTid]
	counterRefUpid Column[ids.UniquePid]
}

// NewTrackTable returns an empty Track table.
func NewTrackTable() *TrackTable {
	return &TrackTable{
		nameId:         NewColumn[ids.StringId]("name_id"),
		sourceArgSet:   NewColumn[ids.ArgSetId]("source_arg_set_id"),
		kind:           NewColumn[TrackKind]("kind"),
		threadUtid:     NewColumn[ids.UniqueTid]("utid"),
		processUpid:    NewColumn[ids.UniquePid]("upid"),
		gpuId:          NewColumn[uint32]("gpu_id"),
		counterUnitId:  NewColumn[ids.StringId]("unit_id"),
		counterKind:    NewColumn[CounterTrackKind]("counter_kind"),
		counterRefUtid: NewColumn[ids.UniqueTid]("counter_ref_utid"),
		counterRefUpid: NewColumn[ids.UniquePid]("counter_ref_upid"),
	}
}

func (t *TrackTable) insert(nameId ids.StringId, kind TrackKind) ids.TrackId {
	t.nameId.Append(nameId)
	t.sourceArgSet.Append(ids.InvalidArgSetId)
	t.kind.Append(kind)
	t.threadUtid.Append(ids.InvalidUniqueTid)
	t.processUpid.Append(ids.InvalidUniquePid)
	t.gpuId.Append(0)
	t.counterUnitId.Append(ids.NullStringId)
	t.counterKind.Append(CounterTrackKindPlain)
	t.counterRefUtid.Append(ids.InvalidUniqueTid)
	t.counterRefUpid.Append(ids.InvalidUniquePid)
	return ids.TrackId(t.nameId.Len() - 1)
}

// InsertThreadTrack inserts a descriptor track scoped to utid.
func (t *TrackTable) InsertThreadTrack(nameId ids.StringId, utid ids.UniqueTid) ids.TrackId {
	id := t.insert(nameId, TrackKindThread)
	t.threadUtid.Set(int(id), utid)
	return id
}

// InsertProcessTrack inserts a descriptor track scoped to upid.
func (t *TrackTable) InsertProcessTrack(nameId ids.StringId, upid ids.UniquePid) ids.TrackId {
	id := t.insert(nameId, TrackKindProcess)
	t.processUpid.Set(int(id), upid)
	return id
}

// InsertGpuTrack inserts a descriptor track scoped to a GPU id.
func (t *TrackTable) InsertGpuTrack(nameId ids.StringId, gpuId uint32) ids.TrackId {
	id := t.insert(nameId, TrackKindGpu)
	t.gpuId.Set(int(id), gpuId)
	return id
}

// InsertCounterTrack inserts a counter track with the given unit.
func (t *TrackTable) InsertCounterTrack(nameId, unitId ids.StringId, kind CounterTrackKind) ids.TrackId {
	id := t.insert(nameId, TrackKindCounter)
	t.counterUnitId.Set(int(id), unitId)
	t.counterKind.Set(int(id), kind)
	return id
}

// SetCounterTrackRefUtid scopes a counter track to a thread, for the
// CounterTrackKindThread child.
func (t *TrackTable) SetCounterTrackRefUtid(id ids.TrackId, utid ids.UniqueTid) {
	t.counterRefUtid.Set(int(id), utid)
}

// SetCounterTrackRefUpid scopes a counter track to a process, for the
// CounterTrackKindProcess child.
func (t *TrackTable) SetCounterTrackRefUpid(id ids.TrackId, upid ids.UniquePid) {
	t.counterRefUpid.Set(int(id), upid)
}

// SetSourceArgSetId is called back by the args tracker on flush
// (TableId.Track → source_arg_set_id).
func (t *TrackTable) SetSourceArgSetId(id ids.TrackId, argSetId ids.ArgSetId) {
	t.sourceArgSet.Set(int(id), argSetId)
}

// RowCount returns the number of tracks across every kind.
func (t *TrackTable) RowCount() int { return t.nameId.Len() }

// NameId returns the name_id column value for row.
func (t *TrackTable) NameId(id ids.TrackId) ids.StringId { return t.nameId.Get(int(id)) }

// SourceArgSetId returns the source_arg_set_id column value for row.
func (t *TrackTable) SourceArgSetId(id ids.TrackId) ids.ArgSetId { return t.sourceArgSet.Get(int(id)) }

// Kind returns the track's child kind.
func (t *TrackTable) Kind(id ids.TrackId) TrackKind { return t.kind.Get(int(id)) }

// Columns returns the Track table's schema, including every child
// extension's columns.
func (t *TrackTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.nameId.Descriptor(),
		t.sourceArgSet.Descriptor(),
		t.kind.Descriptor(),
		t.threadUtid.Descriptor(),
		t.processUpid.Descriptor(),
		t.gpuId.Descriptor(),
		t.counterUnitId.Descriptor(),
		t.counterKind.Descriptor(),
		t.counterRefUtid.Descriptor(),
		t.counterRefUpid.Descriptor(),
	}
}
