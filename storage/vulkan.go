package storage

import "github.com/zakerinasab/perfetto/ids"

// VulkanAllocTable holds the VulkanMemoryAllocations table: one row per
// Vulkan memory (de)allocation event captured from a GPU trace.
type VulkanAllocTable struct {
	source     Column[ids.StringId]
	operation  Column[ids.StringId]
	timestamp  Column[int64]
	memoryType Column[uint32]
	deviceSize Column[uint64]
	argSetId   Column[ids.ArgSetId]
}

// NewVulkanAllocTable returns an empty VulkanMemoryAllocations table.
func NewVulkanAllocTable() *VulkanAllocTable {
	return &VulkanAllocTable{
		source:     NewColumn[ids.StringId]("source"),
		operation:  NewColumn[ids.StringId]("operation"),
		timestamp:  NewColumn[int64]("timestamp"),
		memoryType: NewColumn[uint32]("memory_type"),
		deviceSize: NewColumn[uint64]("device_size"),
		argSetId:   NewColumn[ids.ArgSetId]("arg_set_id"),
	}
}

// Insert appends a Vulkan allocation event and returns its id.
func (t *VulkanAllocTable) Insert(source, operation ids.StringId, timestamp int64, memoryType uint32, deviceSize uint64) ids.VulkanAllocId {
	t.source.Append(source)
	t.operation.Append(operation)
	t.timestamp.Append(timestamp)
	t.memoryType.Append(memoryType)
	t.deviceSize.Append(deviceSize)
	t.argSetId.Append(ids.InvalidArgSetId)
	return ids.VulkanAllocId(t.source.Len() - 1)
}

// SetArgSetId is called back by the args tracker on flush
// (TableId.VulkanMemoryAllocation → arg_set_id).
func (t *VulkanAllocTable) SetArgSetId(id ids.VulkanAllocId, argSetId ids.ArgSetId) {
	t.argSetId.Set(int(id), argSetId)
}

// ArgSetId returns the arg_set_id column value for row.
func (t *VulkanAllocTable) ArgSetId(id ids.VulkanAllocId) ids.ArgSetId { return t.argSetId.Get(int(id)) }

// RowCount returns the number of Vulkan allocation rows.
func (t *VulkanAllocTable) RowCount() int { return t.source.Len() }

// Columns returns the VulkanMemoryAllocations table's schema.
func (t *VulkanAllocTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.source.Descriptor(),
		t.operation.Descriptor(),
		t.timestamp.Descriptor(),
		t.memoryType.Descriptor(),
		t.deviceSize.Descriptor(),
		t.argSetId.Descriptor(),
	}
}
