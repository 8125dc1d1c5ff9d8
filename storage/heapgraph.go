package storage

import "github.com/zakerinasab/perfetto/ids"

// HeapGraphObjectTable holds the HeapGraphObject table: one row per
// live Java/ART heap object captured in a heap dump.
type HeapGraphObjectTable struct {
	upid          Column[ids.UniquePid]
	graphSampleTs Column[int64]
	selfSize      Column[int64]
	nativeSize    Column[int64]
	typeName      Column[ids.StringId]
	reachable     Column[bool]
}

// NewHeapGraphObjectTable returns an empty HeapGraphObject table.
func NewHeapGraphObjectTable() *HeapGraphObjectTable {
	return &HeapGraphObjectTable{
		upid:          NewColumn[ids.UniquePid]("upid"),
		graphSampleTs: NewColumn[int64]("graph_sample_ts"),
		selfSize:      NewColumn[int64]("self_size"),
		nativeSize:    NewColumn[int64]("native_size"),
		typeName:      NewColumn[ids.StringId]("type_name"),
		reachable:     NewColumn[bool]("reachable"),
	}
}

// Insert appends a heap-graph object row and returns its id.
func (t *HeapGraphObjectTable) Insert(upid ids.UniquePid, graphSampleTs, selfSize, nativeSize int64, typeName ids.StringId, reachable bool) ids.HeapGraphObjectId {
	t.upid.Append(upid)
	t.graphSampleTs.Append(graphSampleTs)
	t.selfSize.Append(selfSize)
	t.nativeSize.Append(nativeSize)
	t.typeName.Append(typeName)
	t.reachable.Append(reachable)
	return ids.HeapGraphObjectId(t.upid.Len() - 1)
}

// TypeName returns the type_name column value for row.
func (t *HeapGraphObjectTable) TypeName(id ids.HeapGraphObjectId) ids.StringId {
	return t.typeName.Get(int(id))
}

// RowCount returns the number of heap-graph object rows.
func (t *HeapGraphObjectTable) RowCount() int { return t.upid.Len() }

// Columns returns the HeapGraphObject table's schema.
func (t *HeapGraphObjectTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.upid.Descriptor(),
		t.graphSampleTs.Descriptor(),
		t.selfSize.Descriptor(),
		t.nativeSize.Descriptor(),
		t.typeName.Descriptor(),
		t.reachable.Descriptor(),
	}
}

// HeapGraphReferenceTable holds the HeapGraphReference table: one row
// per field-owner edge between two heap-graph objects.
type HeapGraphReferenceTable struct {
	ownerId   Column[ids.HeapGraphObjectId]
	ownedId   Column[ids.HeapGraphObjectId]
	hasOwned  Column[bool]
	fieldName Column[ids.StringId]
	fieldType Column[ids.StringId]
}

// NewHeapGraphReferenceTable returns an empty HeapGraphReference table.
func NewHeapGraphReferenceTable() *HeapGraphReferenceTable {
	return &HeapGraphReferenceTable{
		ownerId:   NewColumn[ids.HeapGraphObjectId]("owner_id"),
		ownedId:   NewColumn[ids.HeapGraphObjectId]("owned_id"),
		hasOwned:  NewColumn[bool]("has_owned"),
		fieldName: NewColumn[ids.StringId]("field_name"),
		fieldType: NewColumn[ids.StringId]("field_type_name"),
	}
}

// Insert appends a reference edge and returns its id. ownedId is only
// meaningful when hasOwned is true (a null reference has an owner but
// no owned object).
func (t *HeapGraphReferenceTable) Insert(ownerId, ownedId ids.HeapGraphObjectId, hasOwned bool, fieldName, fieldType ids.StringId) ids.HeapGraphReferenceId {
	t.ownerId.Append(ownerId)
	t.ownedId.Append(ownedId)
	t.hasOwned.Append(hasOwned)
	t.fieldName.Append(fieldName)
	t.fieldType.Append(fieldType)
	return ids.HeapGraphReferenceId(t.ownerId.Len() - 1)
}

// OwnerId returns the owner_id column value for row.
func (t *HeapGraphReferenceTable) OwnerId(id ids.HeapGraphReferenceId) ids.HeapGraphObjectId {
	return t.ownerId.Get(int(id))
}

// RowCount returns the number of reference rows.
func (t *HeapGraphReferenceTable) RowCount() int { return t.ownerId.Len() }

// Columns returns the HeapGraphReference table's schema.
func (t *HeapGraphReferenceTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.ownerId.Descriptor(),
		t.ownedId.Descriptor(),
		t.hasOwned.Descriptor(),
		t.fieldName.Descriptor(),
		t.fieldType.Descriptor(),
	}
}
