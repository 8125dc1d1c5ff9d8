package storage

import "github.com/zakerinasab/perfetto/ids"

// InstantTable holds the Instant table: a zero-duration event tagged
// with a ref of ref_type kind.
type InstantTable struct {
	ts       Column[int64]
	name     Column[ids.StringId]
	ref      Column[int64]
	refType  Column[ids.RefType]
	argSetId Column[ids.ArgSetId]
}

// NewInstantTable returns an empty Instant table.
func NewInstantTable() *InstantTable {
	return &InstantTable{
		ts:       NewColumn[int64]("ts"),
		name:     NewColumn[ids.StringId]("name"),
		ref:      NewColumn[int64]("ref"),
		refType:  NewColumn[ids.RefType]("ref_type"),
		argSetId: NewColumn[ids.ArgSetId]("arg_set_id"),
	}
}

// Insert appends an instant event and returns its id.
func (t *InstantTable) Insert(ts int64, name ids.StringId, ref int64, refType ids.RefType) ids.InstantId {
	t.ts.Append(ts)
	t.name.Append(name)
	t.ref.Append(ref)
	t.refType.Append(refType)
	t.argSetId.Append(ids.InvalidArgSetId)
	return ids.InstantId(t.ts.Len() - 1)
}

// SetArgSetId is called back by the args tracker on flush
// (TableId.Instants → arg_set_id).
func (t *InstantTable) SetArgSetId(id ids.InstantId, argSetId ids.ArgSetId) {
	t.argSetId.Set(int(id), argSetId)
}

// Ts returns the ts column value for row.
func (t *InstantTable) Ts(id ids.InstantId) int64 { return t.ts.Get(int(id)) }

// RefType returns the ref_type column value for row.
func (t *InstantTable) RefType(id ids.InstantId) ids.RefType { return t.refType.Get(int(id)) }

// ArgSetId returns the arg_set_id column value for row.
func (t *InstantTable) ArgSetId(id ids.InstantId) ids.ArgSetId { return t.argSetId.Get(int(id)) }

// RowCount returns the number of instant events.
func (t *InstantTable) RowCount() int { return t.ts.Len() }

// Columns returns the Instant table's schema.
func (t *InstantTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.ts.Descriptor(),
		t.name.Descriptor(),
		t.ref.Descriptor(),
		t.refType.Descriptor(),
		t.argSetId.Descriptor(),
	}
}
