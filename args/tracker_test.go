package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/infra/go/testutils/unittest"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/variadic"
)

type fakeDestinations struct {
	sliceArgSetId    map[ids.RowId]ids.ArgSetId
	rawEventArgSetId map[ids.RowId]ids.ArgSetId
	metadataIntValue map[ids.RowId]ids.ArgSetId
}

func newFakeDestinations() *fakeDestinations {
	return &fakeDestinations{
		sliceArgSetId:    map[ids.RowId]ids.ArgSetId{},
		rawEventArgSetId: map[ids.RowId]ids.ArgSetId{},
		metadataIntValue: map[ids.RowId]ids.ArgSetId{},
	}
}

func (f *fakeDestinations) SetRawEventArgSetId(row ids.RowId, id ids.ArgSetId) {
	f.rawEventArgSetId[row] = id
}
func (f *fakeDestinations) SetCounterArgSetId(row ids.RowId, id ids.ArgSetId)       {}
func (f *fakeDestinations) SetInstantArgSetId(row ids.RowId, id ids.ArgSetId)       {}
func (f *fakeDestinations) SetSliceArgSetId(row ids.RowId, id ids.ArgSetId) {
	f.sliceArgSetId[row] = id
}
func (f *fakeDestinations) SetTrackSourceArgSetId(row ids.RowId, id ids.ArgSetId)   {}
func (f *fakeDestinations) SetVulkanAllocArgSetId(row ids.RowId, id ids.ArgSetId)   {}
func (f *fakeDestinations) SetMetadataIntValue(row ids.RowId, id ids.ArgSetId) {
	f.metadataIntValue[row] = id
}

// Two different slice rows that each get a single identical argument
// must end up pointing at the same ArgSetId, and the store must only
// contain that set once.
func TestFlush_DedupesIdenticalArgSetsAcrossRows(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)

	k := ids.StringId(42)
	tr.AddArg(ids.TableNestableSlices, 0, k, k, variadic.Integer(5))
	tr.AddArg(ids.TableNestableSlices, 1, k, k, variadic.Integer(5))
	tr.Flush()

	require.Contains(t, dest.sliceArgSetId, ids.RowId(0))
	require.Contains(t, dest.sliceArgSetId, ids.RowId(1))
	assert.Equal(t, dest.sliceArgSetId[0], dest.sliceArgSetId[1])
	assert.NotEqual(t, ids.InvalidArgSetId, dest.sliceArgSetId[0])
	assert.Equal(t, 1, store.SetCount())
}

// Flushing into TableMetadataTable overwrites the int_value column
// with the assigned set id, not the literal value that was buffered.
func TestFlush_MetadataTableOverwritesIntValue(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)

	name1 := ids.StringId(1)
	name2 := ids.StringId(2)
	tr.AddArg(ids.TableMetadataTable, 7, name1, name1, variadic.String(3))
	tr.AddArg(ids.TableMetadataTable, 7, name2, name2, variadic.Integer(222))
	tr.Flush()

	got, ok := dest.metadataIntValue[7]
	require.True(t, ok)
	assert.NotEqual(t, ids.ArgSetId(0), got)
	assert.NotEqual(t, ids.ArgSetId(222), got)
}

func TestFlush_EmptyBufferIsANoOp(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)
	tr.Flush()
	assert.Equal(t, 0, store.ArgsCount())
}

func TestFlush_DrainsTheBufferExactlyOnce(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)

	tr.AddArg(ids.TableRawEvents, 3, 1, 1, variadic.Integer(1))
	tr.Flush()
	assert.Equal(t, 1, store.ArgsCount())

	// A second flush with nothing buffered must not re-add anything.
	tr.Flush()
	assert.Equal(t, 1, store.ArgsCount())
}

func TestFlush_GroupsOutOfOrderInsertionsByDestination(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)

	// Interleave two rows' arguments; Flush must still group each row's
	// own arguments into one set apiece, in insertion order.
	tr.AddArg(ids.TableRawEvents, 5, 1, 1, variadic.Integer(1))
	tr.AddArg(ids.TableRawEvents, 2, 1, 1, variadic.Integer(9))
	tr.AddArg(ids.TableRawEvents, 5, 2, 2, variadic.Integer(2))
	tr.Flush()

	set5 := store.ArgsForSet(dest.rawEventArgSetId[5])
	require.Len(t, set5, 2)
	assert.True(t, set5[0].Value.Equal(variadic.Integer(1)))
	assert.True(t, set5[1].Value.Equal(variadic.Integer(2)))

	set2 := store.ArgsForSet(dest.rawEventArgSetId[2])
	require.Len(t, set2, 1)
	assert.True(t, set2[0].Value.Equal(variadic.Integer(9)))
}

func TestBoundInserter_TargetsTheBoundRow(t *testing.T) {
	unittest.SmallTest(t)
	store := NewStore()
	dest := newFakeDestinations()
	tr := NewTracker(store, dest)

	ins := tr.Bind(ids.TableNestableSlices, 4)
	ins.AddArg(1, 1, variadic.Integer(1))
	ins.AddArg(2, 2, variadic.Integer(2))
	tr.Flush()

	got := store.ArgsForSet(dest.sliceArgSetId[4])
	assert.Len(t, got, 2)
}
