package storage

import "github.com/zakerinasab/perfetto/ids"

// MappingTable holds the StackProfileMapping table: one row per
// memory-mapped binary region seen in a stack sample.
type MappingTable struct {
	nameId   Column[ids.StringId]
	buildId  Column[ids.StringId]
	exactOff Column[int64]
	startOff Column[int64]
	start    Column[uint64]
	end      Column[uint64]
	loadBias Column[uint64]
}

// NewMappingTable returns an empty StackProfileMapping table.
func NewMappingTable() *MappingTable {
	return &MappingTable{
		nameId:   NewColumn[ids.StringId]("name_id"),
		buildId:  NewColumn[ids.StringId]("build_id"),
		exactOff: NewColumn[int64]("exact_offset"),
		startOff: NewColumn[int64]("start_offset"),
		start:    NewColumn[uint64]("start"),
		end:      NewColumn[uint64]("end"),
		loadBias: NewColumn[uint64]("load_bias"),
	}
}

// Insert appends a mapping row and returns its id.
func (t *MappingTable) Insert(nameId, buildId ids.StringId, exactOff, startOff int64, start, end, loadBias uint64) ids.MappingId {
	t.nameId.Append(nameId)
	t.buildId.Append(buildId)
	t.exactOff.Append(exactOff)
	t.startOff.Append(startOff)
	t.start.Append(start)
	t.end.Append(end)
	t.loadBias.Append(loadBias)
	return ids.MappingId(t.nameId.Len() - 1)
}

// NameId returns the name_id column value for row.
func (t *MappingTable) NameId(id ids.MappingId) ids.StringId { return t.nameId.Get(int(id)) }

// BuildId returns the build_id column value for row.
func (t *MappingTable) BuildId(id ids.MappingId) ids.StringId { return t.buildId.Get(int(id)) }

// RowCount returns the number of mapping rows.
func (t *MappingTable) RowCount() int { return t.nameId.Len() }

// Columns returns the StackProfileMapping table's schema.
func (t *MappingTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.nameId.Descriptor(),
		t.buildId.Descriptor(),
		t.exactOff.Descriptor(),
		t.startOff.Descriptor(),
		t.start.Descriptor(),
		t.end.Descriptor(),
		t.loadBias.Descriptor(),
	}
}

// FrameTable holds the StackProfileFrame table: one row per (mapping,
// relative program counter, resolved name) combination seen in a stack
// sample.
type FrameTable struct {
	nameId    Column[ids.StringId]
	mappingId Column[ids.MappingId]
	relPc     Column[uint64]
}

// NewFrameTable returns an empty StackProfileFrame table.
func NewFrameTable() *FrameTable {
	return &FrameTable{
		nameId:    NewColumn[ids.StringId]("name_id"),
		mappingId: NewColumn[ids.MappingId]("mapping_id"),
		relPc:     NewColumn[uint64]("rel_pc"),
	}
}

// Insert appends a frame row and returns its id.
func (t *FrameTable) Insert(nameId ids.StringId, mappingId ids.MappingId, relPc uint64) ids.FrameId {
	t.nameId.Append(nameId)
	t.mappingId.Append(mappingId)
	t.relPc.Append(relPc)
	return ids.FrameId(t.nameId.Len() - 1)
}

// MappingId returns the mapping_id column value for row.
func (t *FrameTable) MappingId(id ids.FrameId) ids.MappingId { return t.mappingId.Get(int(id)) }

// RelPc returns the rel_pc column value for row.
func (t *FrameTable) RelPc(id ids.FrameId) uint64 { return t.relPc.Get(int(id)) }

// RowCount returns the number of frame rows.
func (t *FrameTable) RowCount() int { return t.nameId.Len() }

// Columns returns the StackProfileFrame table's schema.
func (t *FrameTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.nameId.Descriptor(),
		t.mappingId.Descriptor(),
		t.relPc.Descriptor(),
	}
}

// CallsiteTable holds the StackProfileCallsite table: one row per
// (parent callsite, depth, frame) edge in the unwound-stack tree.
type CallsiteTable struct {
	depth     Column[uint32]
	parentId  Column[ids.CallsiteId]
	hasParent Column[bool]
	frameId   Column[ids.FrameId]
}

// NewCallsiteTable returns an empty StackProfileCallsite table.
func NewCallsiteTable() *CallsiteTable {
	return &CallsiteTable{
		depth:     NewColumn[uint32]("depth"),
		parentId:  NewColumn[ids.CallsiteId]("parent_id"),
		hasParent: NewColumn[bool]("has_parent"),
		frameId:   NewColumn[ids.FrameId]("frame_id"),
	}
}

// Insert appends a root callsite (no parent) and returns its id.
func (t *CallsiteTable) Insert(depth uint32, frameId ids.FrameId) ids.CallsiteId {
	t.depth.Append(depth)
	t.parentId.Append(0)
	t.hasParent.Append(false)
	t.frameId.Append(frameId)
	return ids.CallsiteId(t.depth.Len() - 1)
}

// InsertChild appends a callsite extending parentId one frame deeper.
func (t *CallsiteTable) InsertChild(parentId ids.CallsiteId, depth uint32, frameId ids.FrameId) ids.CallsiteId {
	t.depth.Append(depth)
	t.parentId.Append(parentId)
	t.hasParent.Append(true)
	t.frameId.Append(frameId)
	return ids.CallsiteId(t.depth.Len() - 1)
}

// FrameId returns the frame_id column value for row.
func (t *CallsiteTable) FrameId(id ids.CallsiteId) ids.FrameId { return t.frameId.Get(int(id)) }

// Parent returns the parent callsite id for row, and whether row has a
// parent at all (root callsites do not).
func (t *CallsiteTable) Parent(id ids.CallsiteId) (ids.CallsiteId, bool) {
	return t.parentId.Get(int(id)), t.hasParent.Get(int(id))
}

// RowCount returns the number of callsite rows.
func (t *CallsiteTable) RowCount() int { return t.depth.Len() }

// Columns returns the StackProfileCallsite table's schema.
func (t *CallsiteTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.depth.Descriptor(),
		t.parentId.Descriptor(),
		t.hasParent.Descriptor(),
		t.frameId.Descriptor(),
	}
}
