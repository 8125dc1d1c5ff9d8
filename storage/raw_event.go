package storage

import "github.com/zakerinasab/perfetto/ids"

// RawEventTable holds the RawEvents table, the escape hatch for
// ftrace-shaped events that don't fit a more specific table.
type RawEventTable struct {
	ts       Column[int64]
	nameId   Column[ids.StringId]
	cpu      Column[uint32]
	utid     Column[ids.UniqueTid]
	argSetId Column[ids.ArgSetId]
}

// NewRawEventTable returns an empty RawEvents table.
func NewRawEventTable() *RawEventTable {
	return &RawEventTable{
		ts:       NewColumn[int64]("ts"),
		nameId:   NewColumn[ids.StringId]("name_id"),
		cpu:      NewColumn[uint32]("cpu"),
		utid:     NewColumn[ids.UniqueTid]("utid"),
		argSetId: NewColumn[ids.ArgSetId]("arg_set_id"),
	}
}

// Insert appends a raw event and returns its id.
func (t *RawEventTable) Insert(ts int64, nameId ids.StringId, cpu uint32, utid ids.UniqueTid) ids.RawEventId {
	t.ts.Append(ts)
	t.nameId.Append(nameId)
	t.cpu.Append(cpu)
	t.utid.Append(utid)
	t.argSetId.Append(ids.InvalidArgSetId)
	return ids.RawEventId(t.ts.Len() - 1)
}

// SetArgSetId is called back by the args tracker on flush
// (TableId.RawEvents → arg_set_id).
func (t *RawEventTable) SetArgSetId(id ids.RawEventId, argSetId ids.ArgSetId) {
	t.argSetId.Set(int(id), argSetId)
}

// NameId returns the name_id column value for row.
func (t *RawEventTable) NameId(id ids.RawEventId) ids.StringId { return t.nameId.Get(int(id)) }

// ArgSetId returns the arg_set_id column value for row.
func (t *RawEventTable) ArgSetId(id ids.RawEventId) ids.ArgSetId { return t.argSetId.Get(int(id)) }

// RowCount returns the number of raw events.
func (t *RawEventTable) RowCount() int { return t.ts.Len() }

// Columns returns the RawEvents table's schema.
func (t *RawEventTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.ts.Descriptor(),
		t.nameId.Descriptor(),
		t.cpu.Descriptor(),
		t.utid.Descriptor(),
		t.argSetId.Descriptor(),
	}
}
