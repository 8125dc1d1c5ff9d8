package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/infra/go/testutils/unittest"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/variadic"
)

func TestNew_StartsEmpty(t *testing.T) {
	unittest.SmallTest(t)
	s := New("empty-trace")
	summary := s.Summarize()
	assert.Equal(t, 1, summary.Threads)
	assert.Equal(t, 1, summary.Processes)
	assert.Equal(t, 0, summary.Slices)
	assert.Equal(t, 0, summary.ArgSets)
}

func TestCompleteSlice_RoundTripsThroughThreadTrackAndThreadSlices(t *testing.T) {
	unittest.MediumTest(t)
	s := New("trace")

	utid := s.Threads().AddEmptyThread(100)
	thread := s.Threads().GetMutableThread(utid)
	thread.Tid = 100

	trackNameId := s.InternString([]byte("thread track"))
	track := s.Tracks().InsertThreadTrack(trackNameId, utid)
	s.ArgsTracker().Flush()

	cat := s.InternString([]byte("cat"))
	name := s.InternString([]byte("name"))
	sliceId := s.Slices().Insert(10_000_000, 10_000, track, cat, name, 0, 0, 0)
	s.ThreadSlices().Insert(ThreadSliceRow{
		SliceId:      sliceId,
		ThreadTs:     20_000_000,
		ThreadDur:    20_000,
		ThreadICount: 30_000_000,
		ThreadIDelta: 30_000,
	})

	assert.Equal(t, int64(10_000_000), s.Slices().Ts(sliceId))
	assert.Equal(t, int64(10_000), s.Slices().Dur(sliceId))
	row, ok := s.ThreadSlices().Get(sliceId)
	require.True(t, ok)
	assert.Equal(t, int64(30_000_000), row.ThreadICount)
	assert.NoError(t, s.Validate())
}

func TestUnterminatedSlice_KeepsNegativeOneSentinels(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	utid := s.Threads().AddEmptyThread(100)
	track := s.Tracks().InsertThreadTrack(s.InternString([]byte("t")), utid)

	cat := s.InternString([]byte("cat"))
	name := s.InternString([]byte("name"))
	sliceId := s.Slices().Insert(10_000_000, -1, track, cat, name, 0, 0, 0)
	s.ThreadSlices().Insert(ThreadSliceRow{
		SliceId:      sliceId,
		ThreadTs:     20_000_000,
		ThreadDur:    -1,
		ThreadICount: 30_000_000,
		ThreadIDelta: -1,
	})

	assert.Equal(t, int64(-1), s.Slices().Dur(sliceId))
	row, _ := s.ThreadSlices().Get(sliceId)
	assert.Equal(t, int64(-1), row.ThreadDur)
	assert.Equal(t, int64(-1), row.ThreadIDelta)
	assert.Equal(t, int64(30_000_000), row.ThreadICount)
}

func TestArgSetDedup_AcrossTwoTracksSharesOneSet(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	utid1 := s.Threads().AddEmptyThread(1)
	utid2 := s.Threads().AddEmptyThread(2)
	track1 := s.Tracks().InsertThreadTrack(s.InternString([]byte("t1")), utid1)
	track2 := s.Tracks().InsertThreadTrack(s.InternString([]byte("t2")), utid2)

	cat := s.InternString([]byte("cat"))
	name := s.InternString([]byte("name"))
	slice1 := s.Slices().Insert(0, 1, track1, cat, name, 0, 0, 0)
	slice2 := s.Slices().Insert(0, 1, track2, cat, name, 0, 0, 0)

	k := s.InternString([]byte("k"))
	s.ArgsTracker().Bind(ids.TableNestableSlices, ids.RowId(slice1)).AddArg(k, k, variadic.Integer(5))
	s.ArgsTracker().Bind(ids.TableNestableSlices, ids.RowId(slice2)).AddArg(k, k, variadic.Integer(5))
	s.ArgsTracker().Flush()

	id1 := s.Slices().ArgSetId(slice1)
	id2 := s.Slices().ArgSetId(slice2)
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, ids.InvalidArgSetId, id1)
	assert.Equal(t, 1, s.Args().SetCount())
}

func TestPointerArgs_RoundTripExtremeValues(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	name := s.InternString([]byte("chrome_event.metadata"))
	utid := s.Threads().AddEmptyThread(1)
	row := s.RawEvents().Insert(0, name, 0, utid)

	k1 := s.InternString([]byte("ptr1"))
	k2 := s.InternString([]byte("ptr2"))
	s.ArgsTracker().Bind(ids.TableRawEvents, ids.RowId(row)).AddArg(k1, k1, variadic.Pointer(1))
	s.ArgsTracker().Bind(ids.TableRawEvents, ids.RowId(row)).AddArg(k2, k2, variadic.Pointer(^uint64(0)))
	s.ArgsTracker().Flush()

	setId := s.RawEvents().ArgSetId(row)
	got := s.Args().ArgsForSet(setId)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].Value.PointerValue())
	assert.Equal(t, uint64(18446744073709551615), got[1].Value.PointerValue())
}

func TestMetadataFlush_OverwritesIntValueWithSetId(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	keyName := s.InternString([]byte("some_key"))
	row := s.Metadata().InsertInt(keyName, 0)

	name1 := s.InternString([]byte("name1"))
	name2 := s.InternString([]byte("name2"))
	value1 := s.InternString([]byte("value1"))
	s.ArgsTracker().AddArg(ids.TableMetadataTable, ids.RowId(row), name1, name1, variadic.String(value1))
	s.ArgsTracker().AddArg(ids.TableMetadataTable, ids.RowId(row), name2, name2, variadic.Integer(222))
	s.ArgsTracker().Flush()

	got := s.Metadata().IntValue(row)
	assert.NotEqual(t, int64(0), got)
	assert.NotEqual(t, int64(222), got)
}

func TestValidate_FlagsOutOfRangeArgSetReference(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	utid := s.Threads().AddEmptyThread(1)
	track := s.Tracks().InsertThreadTrack(s.InternString([]byte("t")), utid)
	sliceId := s.Slices().Insert(0, 1, track, 0, 0, 0, 0, 0)
	s.Slices().SetArgSetId(sliceId, ids.ArgSetId(999))

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown arg_set_id")
}

func TestMappingAndFrameIndex_DedupByCompositeKey(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	nameId := s.InternString([]byte("libc.so"))
	buildId := s.InternString([]byte("abc123"))
	mappingId := s.Mappings().Insert(nameId, buildId, 0, 0, 0, 0x1000, 0)
	s.MappingIndex().Insert(nameId, buildId, mappingId)

	frameId := s.Frames().Insert(s.InternString([]byte("foo")), mappingId, 0x10)
	s.FrameIndex().Insert(mappingId, 0x10, frameId)

	gotMappings := s.MappingIndex().Lookup(nameId, buildId)
	require.Len(t, gotMappings, 1)
	assert.Equal(t, mappingId, gotMappings[0])

	gotFrames := s.FrameIndex().Lookup(mappingId, 0x10)
	require.Len(t, gotFrames, 1)
	assert.Equal(t, frameId, gotFrames[0])

	// A second lookup of the same key must hit the LRU front-cache and
	// still return the same (now-cached) slice.
	assert.Equal(t, gotMappings, s.MappingIndex().Lookup(nameId, buildId))
}

func TestThreadRegistry_IdsAreContiguousAndStable(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	first := s.Threads().AddEmptyThread(10)
	second := s.Threads().AddEmptyThread(20)
	assert.Equal(t, ids.UniqueTid(1), first)
	assert.Equal(t, ids.UniqueTid(2), second)

	// A pointer handed out before a later insert must still reflect
	// later mutations of the same row.
	handle := s.Threads().GetMutableThread(first)
	handle.NameId = ids.StringId(7)
	_ = s.Threads().AddEmptyThread(30)
	assert.Equal(t, ids.StringId(7), s.Threads().GetThread(first).NameId)
}

func TestArgSetParams_RendersStringArgsAndSkipsOtherTypes(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")
	name := s.InternString([]byte("track"))
	utid := s.Threads().AddEmptyThread(1)
	row := s.RawEvents().Insert(0, name, 0, utid)

	strKey := s.InternString([]byte("str_arg"))
	strVal := s.InternString([]byte("hello"))
	intKey := s.InternString([]byte("int_arg"))
	s.ArgsTracker().Bind(ids.TableRawEvents, ids.RowId(row)).AddArg(strKey, strKey, variadic.String(strVal))
	s.ArgsTracker().Bind(ids.TableRawEvents, ids.RowId(row)).AddArg(intKey, intKey, variadic.Integer(5))
	s.ArgsTracker().Flush()

	params := s.ArgSetParams(s.RawEvents().ArgSetId(row))
	assert.Equal(t, "hello", params["str_arg"])
	_, hasIntArg := params["int_arg"]
	assert.False(t, hasIntArg)
}

func TestIndexedStatKeys_ReturnsEveryRecordedIndex(t *testing.T) {
	unittest.SmallTest(t)
	values := map[int]int64{2: 10, 5: 20, 9: 30}
	keys := IndexedStatKeys(values)
	assert.ElementsMatch(t, []int{2, 5, 9}, keys)
}

func TestSchema_ExposesEveryTableWithNameAndType(t *testing.T) {
	unittest.SmallTest(t)
	s := New("trace")

	schema := s.Schema()
	require.Contains(t, schema, "slice")
	require.Contains(t, schema, "counter")
	require.Contains(t, schema, "vulkan_memory_allocation")

	sliceColumns := schema["slice"]
	require.Len(t, sliceColumns, 9)
	assert.Equal(t, ColumnDescriptor{Name: "ts", Type: "int64"}, sliceColumns[0])
	assert.Equal(t, ColumnDescriptor{Name: "dur", Type: "int64"}, sliceColumns[1])
	assert.Equal(t, "ids.TrackId", sliceColumns[2].Type)

	// Descriptor metadata is static: it does not depend on how many
	// rows a table holds.
	s.Slices().Insert(1, 2, ids.TrackId(0), ids.NullStringId, ids.NullStringId, 0, 0, 0)
	assert.Equal(t, sliceColumns, s.Slices().Columns())
}
