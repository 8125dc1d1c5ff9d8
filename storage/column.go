// Package storage implements the columnar table machinery: every
// logical table is a set of equal-length columns sharing a dense row
// index, plus the String Pool, Args Store/Tracker, Stats, Unique
// Process/Thread registries and auxiliary indices that make up the
// full in-memory trace storage core.
package storage

import "fmt"

// ColumnDescriptor carries the per-column metadata (name, Go type) a
// query layer needs to enumerate a table's schema without depending on
// the table's concrete struct. Every table built on Column exposes its
// column list through a Columns() method built from these, and
// TraceStorage.Schema() collects them; the Thread and Process
// registries and the ThreadSlices/VirtualTrackSlices extensions are not
// built on Column and have no Columns() method.
type ColumnDescriptor struct {
	Name string
	Type string
}

// Column is one typed, append-only column shared by every row in a
// table. It never reallocates in a way that invalidates previously
// returned values (Get/Set copy by value), and Append always grows
// every sibling column of the same table by exactly one (enforced by
// the owning table, not by Column itself).
type Column[T any] struct {
	name     string
	typeName string
	data     []T
}

// NewColumn returns an empty, named Column. The column's reported type
// is derived from T itself, so callers never pass it redundantly.
func NewColumn[T any](name string) Column[T] {
	var zero T
	return Column[T]{name: name, typeName: fmt.Sprintf("%T", zero)}
}

// Name returns the column's name, used to build a table's
// ColumnDescriptor list.
func (c *Column[T]) Name() string { return c.name }

// Descriptor returns the ColumnDescriptor a table uses to report this
// column to the query layer.
func (c *Column[T]) Descriptor() ColumnDescriptor {
	return ColumnDescriptor{Name: c.name, Type: c.typeName}
}

// Append adds v as the new last row of the column and returns its
// index.
func (c *Column[T]) Append(v T) int {
	c.data = append(c.data, v)
	return len(c.data) - 1
}

// Get returns the value stored at row.
func (c *Column[T]) Get(row int) T { return c.data[row] }

// Set overwrites the value stored at row.
func (c *Column[T]) Set(row int, v T) { c.data[row] = v }

// Len returns the column's length.
func (c *Column[T]) Len() int { return len(c.data) }

// Slice returns the column's full backing data. Callers must not
// mutate the returned slice directly; use Set.
func (c *Column[T]) Slice() []T { return c.data }
