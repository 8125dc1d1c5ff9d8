package storage

import "github.com/zakerinasab/perfetto/ids"

// CounterTable holds the Counter table: one sample of a counter track
// at a timestamp.
type CounterTable struct {
	ts       Column[int64]
	trackId  Column[ids.TrackId]
	value    Column[float64]
	argSetId Column[ids.ArgSetId]
}

// NewCounterTable returns an empty Counter table.
func NewCounterTable() *CounterTable {
	return &CounterTable{
		ts:       NewColumn[int64]("ts"),
		trackId:  NewColumn[ids.TrackId]("track_id"),
		value:    NewColumn[float64]("value"),
		argSetId: NewColumn[ids.ArgSetId]("arg_set_id"),
	}
}

// Insert appends a counter sample and returns its id.
func (t *CounterTable) Insert(ts int64, trackId ids.TrackId, value float64) ids.CounterId {
	t.ts.Append(ts)
	t.trackId.Append(trackId)
	t.value.Append(value)
	t.argSetId.Append(ids.InvalidArgSetId)
	return ids.CounterId(t.ts.Len() - 1)
}

// SetArgSetId is called back by the args tracker on flush
// (TableId.CounterValues → arg_set_id).
func (t *CounterTable) SetArgSetId(id ids.CounterId, argSetId ids.ArgSetId) {
	t.argSetId.Set(int(id), argSetId)
}

// Ts returns the ts column value for row.
func (t *CounterTable) Ts(id ids.CounterId) int64 { return t.ts.Get(int(id)) }

// Value returns the value column value for row.
func (t *CounterTable) Value(id ids.CounterId) float64 { return t.value.Get(int(id)) }

// ArgSetId returns the arg_set_id column value for row.
func (t *CounterTable) ArgSetId(id ids.CounterId) ids.ArgSetId { return t.argSetId.Get(int(id)) }

// RowCount returns the number of counter samples.
func (t *CounterTable) RowCount() int { return t.ts.Len() }

// Columns returns the Counter table's schema.
func (t *CounterTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.ts.Descriptor(),
		t.trackId.Descriptor(),
		t.value.Descriptor(),
		t.argSetId.Descriptor(),
	}
}
