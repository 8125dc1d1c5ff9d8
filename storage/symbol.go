package storage

import "github.com/zakerinasab/perfetto/ids"

// SymbolTable holds the Symbol table: resolved debug-info symbols for
// a frame, keyed by a symbol_set_id shared across all inlined frames
// at one program counter.
type SymbolTable struct {
	symbolSetId Column[uint32]
	name        Column[ids.StringId]
	sourceFile  Column[ids.StringId]
	line        Column[uint32]
}

// NewSymbolTable returns an empty Symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbolSetId: NewColumn[uint32]("symbol_set_id"),
		name:        NewColumn[ids.StringId]("name"),
		sourceFile:  NewColumn[ids.StringId]("source_file"),
		line:        NewColumn[uint32]("line"),
	}
}

// Insert appends a symbol row and returns its id.
func (t *SymbolTable) Insert(symbolSetId uint32, name, sourceFile ids.StringId, line uint32) ids.SymbolId {
	t.symbolSetId.Append(symbolSetId)
	t.name.Append(name)
	t.sourceFile.Append(sourceFile)
	t.line.Append(line)
	return ids.SymbolId(t.symbolSetId.Len() - 1)
}

// SymbolSetId returns the symbol_set_id column value for row.
func (t *SymbolTable) SymbolSetId(id ids.SymbolId) uint32 { return t.symbolSetId.Get(int(id)) }

// Name returns the name column value for row.
func (t *SymbolTable) Name(id ids.SymbolId) ids.StringId { return t.name.Get(int(id)) }

// RowCount returns the number of symbol rows.
func (t *SymbolTable) RowCount() int { return t.symbolSetId.Len() }

// Columns returns the Symbol table's schema.
func (t *SymbolTable) Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		t.symbolSetId.Descriptor(),
		t.name.Descriptor(),
		t.sourceFile.Descriptor(),
		t.line.Descriptor(),
	}
}
