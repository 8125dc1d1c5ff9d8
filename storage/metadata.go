package storage

import "github.com/zakerinasab/perfetto/ids"

// MetadataKeyType distinguishes whether a Metadata row's value lives in
// int_value or string_value.
type MetadataKeyType uint8

const (
	MetadataKeyTypeInt MetadataKeyType = iota
	MetadataKeyTypeString
)

// MetadataTable holds the Metadata table. int_value doubles as the
// destination column for an args-tracker flush targeting this table:
// the assigned ArgSetId simply overwrites whatever int_value
// previously held.
type MetadataTable struct {
	keyType     Column[MetadataKeyType]
	keyName     Column[ids.StringId]
	intValue    Column[int64]
	stringValue Column[ids.StringId]
}

// NewMetadataTable returns an empty Metadata table.
func NewMetadataTable() *MetadataTable {
	return &MetadataTable{
		keyType:     NewColumn[MetadataKeyType]("key_type"),
		keyName:     NewColumn[ids.StringId]("key_name"),
		intValue:    NewColumn[int64]("int_value"),
		stringValue: NewColumn[ids.StringId]("string_value"),
	}
}

// InsertInt appends a row whose value lives in int_value.
func (t *MetadataTable) InsertInt(keyName ids.StringId, value int64) ids.MetadataId {
	t.keyType.Append(MetadataKeyTypeInt)
	t.keyName.Append(keyName)
	t.intValue.Append(value)
	t.stringValue.Append(ids.NullStringId)
	return ids.MetadataId(t.keyType.Len() - 1)
}

// InsertString appends a row whose value lives in string_value.
func (t *MetadataTable) InsertString(keyName, value ids.StringId) ids.MetadataId {
	t.keyType.Append(MetadataKeyTypeString)
	t.keyName.Append(keyName)
	t.intValue.Append(0)
	t.stringValue.Append(value)
	return ids.MetadataId(t.keyType.Len() - 1)
}

// SetIntValue overwrites int_value directly; the args tracker uses this
// to write the overloaded arg_set_id (TableId.MetadataTable →
// int_value) on flush.
func (t *MetadataTable) SetIntValue(id ids.MetadataId, value int64) {
	t.intValue.Set(int(id), value)
}

// IntValue returns the int_value column value for row.
func (t *MetadataTable) IntValue(id ids.MetadataId) int64 { return t.intValue.Get(int(id)) }

// KeyName returns the key_name column value for row.
func (t *MetadataTable) KeyName(id ids.MetadataId) ids.StringId { return t.keyName.Get(int(id)) }

// RowCount returns the number of metadata rows.
func (t *MetadataTable) RowCount() int { return t.keyType.Len() }

// Columns returns the Metadata table's schema.
func (t *MetadataTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.keyType.Descriptor(),
		t.keyName.Descriptor(),
		t.intValue.Descriptor(),
		t.stringValue.Descriptor(),
	}
}
