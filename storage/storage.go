package storage

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.skia.org/infra/go/paramtools"
	"go.skia.org/infra/go/sklog"
	"golang.org/x/exp/maps"

	"github.com/zakerinasab/perfetto/args"
	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/stats"
	"github.com/zakerinasab/perfetto/stringpool"
	"github.com/zakerinasab/perfetto/variadic"
)

// TraceStorage is the full in-memory trace storage core: the String
// Pool, Args Store/Tracker, Stats, Unique Process/Thread registries,
// every columnar table, and the stack-profile auxiliary indices, wired
// together behind one handle a parser or query layer can share.
type TraceStorage struct {
	strings *stringpool.Pool
	argsSt  *args.Store
	tracker *args.Tracker
	st      *stats.Stats

	threads   *ThreadTable
	processes *ProcessTable

	tracks         *TrackTable
	slices         *SliceTable
	threadSlices   *ThreadSliceTable
	virtualSlices  *VirtualTrackSliceTable
	counters       *CounterTable
	instants       *InstantTable
	rawEvents      *RawEventTable
	metadata       *MetadataTable
	mappings       *MappingTable
	frames         *FrameTable
	callsites      *CallsiteTable
	symbols        *SymbolTable
	heapObjects    *HeapGraphObjectTable
	heapReferences *HeapGraphReferenceTable
	vulkanAllocs   *VulkanAllocTable

	mappingIndex *MappingIndex
	frameIndex   *FrameIndex
}

// New returns an empty TraceStorage for a trace identified by
// traceName (used only to tag its metrics2 counters).
func New(traceName string) *TraceStorage {
	s := &TraceStorage{
		strings: stringpool.New(),
		argsSt:  args.NewStore(),
		st:      stats.New(traceName),

		threads:   NewThreadTable(),
		processes: NewProcessTable(),

		tracks:         NewTrackTable(),
		slices:         NewSliceTable(),
		threadSlices:   NewThreadSliceTable(),
		virtualSlices:  NewVirtualTrackSliceTable(),
		counters:       NewCounterTable(),
		instants:       NewInstantTable(),
		rawEvents:      NewRawEventTable(),
		metadata:       NewMetadataTable(),
		mappings:       NewMappingTable(),
		frames:         NewFrameTable(),
		callsites:      NewCallsiteTable(),
		symbols:        NewSymbolTable(),
		heapObjects:    NewHeapGraphObjectTable(),
		heapReferences: NewHeapGraphReferenceTable(),
		vulkanAllocs:   NewVulkanAllocTable(),

		mappingIndex: NewMappingIndex(),
		frameIndex:   NewFrameIndex(),
	}
	s.tracker = args.NewTracker(s.argsSt, s)
	return s
}

// Strings returns the String Pool.
func (s *TraceStorage) Strings() *stringpool.Pool { return s.strings }

// GetString is the read-path convenience wrapper for string lookups.
func (s *TraceStorage) GetString(id ids.StringId) string { return s.strings.GetString(id) }

// InternString is the write-path convenience wrapper for interning.
func (s *TraceStorage) InternString(b []byte) ids.StringId { return s.strings.InternString(b) }

// Args returns the Args Store.
func (s *TraceStorage) Args() *args.Store { return s.argsSt }

// ArgsTracker returns the Args Tracker bound to this storage.
func (s *TraceStorage) ArgsTracker() *args.Tracker { return s.tracker }

// Stats returns the Stats counter array.
func (s *TraceStorage) Stats() *stats.Stats { return s.st }

// Threads returns the Unique Thread registry.
func (s *TraceStorage) Threads() *ThreadTable { return s.threads }

// Processes returns the Unique Process registry.
func (s *TraceStorage) Processes() *ProcessTable { return s.processes }

// Tracks returns the Track table family.
func (s *TraceStorage) Tracks() *TrackTable { return s.tracks }

// Slices returns the Slice table.
func (s *TraceStorage) Slices() *SliceTable { return s.slices }

// ThreadSlices returns the ThreadSlices extension table.
func (s *TraceStorage) ThreadSlices() *ThreadSliceTable { return s.threadSlices }

// VirtualTrackSlices returns the VirtualTrackSlices extension table.
func (s *TraceStorage) VirtualTrackSlices() *VirtualTrackSliceTable { return s.virtualSlices }

// Counters returns the Counter table.
func (s *TraceStorage) Counters() *CounterTable { return s.counters }

// Instants returns the Instant table.
func (s *TraceStorage) Instants() *InstantTable { return s.instants }

// RawEvents returns the RawEvents table.
func (s *TraceStorage) RawEvents() *RawEventTable { return s.rawEvents }

// Metadata returns the Metadata table.
func (s *TraceStorage) Metadata() *MetadataTable { return s.metadata }

// Mappings returns the StackProfileMapping table.
func (s *TraceStorage) Mappings() *MappingTable { return s.mappings }

// Frames returns the StackProfileFrame table.
func (s *TraceStorage) Frames() *FrameTable { return s.frames }

// Callsites returns the StackProfileCallsite table.
func (s *TraceStorage) Callsites() *CallsiteTable { return s.callsites }

// Symbols returns the Symbol table.
func (s *TraceStorage) Symbols() *SymbolTable { return s.symbols }

// HeapGraphObjects returns the HeapGraphObject table.
func (s *TraceStorage) HeapGraphObjects() *HeapGraphObjectTable { return s.heapObjects }

// HeapGraphReferences returns the HeapGraphReference table.
func (s *TraceStorage) HeapGraphReferences() *HeapGraphReferenceTable { return s.heapReferences }

// VulkanAllocs returns the VulkanMemoryAllocations table.
func (s *TraceStorage) VulkanAllocs() *VulkanAllocTable { return s.vulkanAllocs }

// MappingIndex returns the mapping dedup index.
func (s *TraceStorage) MappingIndex() *MappingIndex { return s.mappingIndex }

// FrameIndex returns the frame dedup index.
func (s *TraceStorage) FrameIndex() *FrameIndex { return s.frameIndex }

// The methods below implement args.Destinations, letting ArgsTracker
// write a computed ArgSetId back into the owning table without
// depending on the storage package directly.

func (s *TraceStorage) SetRawEventArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.rawEvents.SetArgSetId(ids.RawEventId(row), id)
}

func (s *TraceStorage) SetCounterArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.counters.SetArgSetId(ids.CounterId(row), id)
}

func (s *TraceStorage) SetInstantArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.instants.SetArgSetId(ids.InstantId(row), id)
}

func (s *TraceStorage) SetSliceArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.slices.SetArgSetId(ids.SliceId(row), id)
}

func (s *TraceStorage) SetTrackSourceArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.tracks.SetSourceArgSetId(ids.TrackId(row), id)
}

func (s *TraceStorage) SetVulkanAllocArgSetId(row ids.RowId, id ids.ArgSetId) {
	s.vulkanAllocs.SetArgSetId(ids.VulkanAllocId(row), id)
}

func (s *TraceStorage) SetMetadataIntValue(row ids.RowId, id ids.ArgSetId) {
	s.metadata.SetIntValue(ids.MetadataId(row), int64(id))
}

// ArgSetParams renders the string-valued arguments of setId as
// paramtools.Params keyed by their flat_key, matching how an exporter
// would flatten an arg set for display. Non-string values are skipped;
// this is a debug/summary helper, not a full export path (the JSON
// exporter itself is out of scope).
func (s *TraceStorage) ArgSetParams(setId ids.ArgSetId) paramtools.Params {
	out := paramtools.Params{}
	for _, a := range s.argsSt.ArgsForSet(setId) {
		if a.Value.Type != variadic.TypeString {
			continue
		}
		flatKey := s.strings.GetString(a.FlatKey)
		out.Add(paramtools.Params{flatKey: s.strings.GetString(a.Value.StringValue())})
	}
	return out
}

// Validate runs every cheap cross-table consistency check and
// aggregates every violation found, rather than stopping at the first,
// so a debug run can report everything wrong with a trace in one pass.
func (s *TraceStorage) Validate() error {
	var result *multierror.Error

	if s.tracks.RowCount() != s.tracks.sourceArgSet.Len() {
		result = multierror.Append(result, fmt.Errorf("storage: track table columns have mismatched length"))
	}
	if n := s.slices.RowCount(); n != s.slices.dur.Len() || n != s.slices.trackId.Len() {
		result = multierror.Append(result, fmt.Errorf("storage: slice table columns have mismatched length"))
	}

	for i := 0; i < s.slices.RowCount(); i++ {
		id := s.slices.ArgSetId(ids.SliceId(i))
		if id != ids.InvalidArgSetId && s.argsSt.ArgsForSet(id) == nil {
			result = multierror.Append(result, fmt.Errorf("storage: slice %d references unknown arg_set_id %d", i, id))
		}
		trackId := s.slices.TrackId(ids.SliceId(i))
		if int(trackId) >= s.tracks.RowCount() {
			result = multierror.Append(result, fmt.Errorf("storage: slice %d references out-of-range track_id %d", i, trackId))
		}
	}

	for i := 0; i < s.counters.RowCount(); i++ {
		id := s.counters.ArgSetId(ids.CounterId(i))
		if id != ids.InvalidArgSetId && s.argsSt.ArgsForSet(id) == nil {
			result = multierror.Append(result, fmt.Errorf("storage: counter %d references unknown arg_set_id %d", i, id))
		}
	}

	for i := 0; i < s.rawEvents.RowCount(); i++ {
		utid := s.rawEvents.utid.Get(i)
		if int(utid) >= s.threads.ThreadCount() {
			result = multierror.Append(result, fmt.Errorf("storage: raw event %d references out-of-range utid %d", i, utid))
		}
	}

	if result != nil {
		sklog.Warningf("storage.Validate: %d invariant violation(s)", len(result.Errors))
		return result
	}
	return nil
}

// Summary is a plain-data snapshot of per-table row counts, useful for
// a debug CLI or a test assertion without reaching into every table
// accessor individually.
type Summary struct {
	Threads    int
	Processes  int
	Tracks     int
	Slices     int
	Counters   int
	Instants   int
	RawEvents  int
	Metadata   int
	ArgSets    int
	Args       int
}

// Summarize returns a Summary of the current row counts.
func (s *TraceStorage) Summarize() Summary {
	return Summary{
		Threads:   s.threads.ThreadCount(),
		Processes: s.processes.ProcessCount(),
		Tracks:    s.tracks.RowCount(),
		Slices:    s.slices.RowCount(),
		Counters:  s.counters.RowCount(),
		Instants:  s.instants.RowCount(),
		RawEvents: s.rawEvents.RowCount(),
		Metadata:  s.metadata.RowCount(),
		ArgSets:   s.argsSt.SetCount(),
		Args:      s.argsSt.ArgsCount(),
	}
}

// IndexedStatKeys returns the indices that currently have a counter
// recorded in an Indexed stats key, in arbitrary map order; callers
// needing stable output should sort the result themselves.
func IndexedStatKeys(values map[int]int64) []int {
	return maps.Keys(values)
}

// Schema returns every table's ColumnDescriptor list keyed by table
// name, the query-layer-facing view of the whole storage's structure.
func (s *TraceStorage) Schema() map[string][]ColumnDescriptor {
	schema := make(map[string][]ColumnDescriptor, 13)
	schema["track"] = s.tracks.Columns()
	schema["slice"] = s.slices.Columns()
	schema["counter"] = s.counters.Columns()
	schema["instant"] = s.instants.Columns()
	schema["raw_event"] = s.rawEvents.Columns()
	schema["metadata"] = s.metadata.Columns()
	schema["stack_profile_mapping"] = s.mappings.Columns()
	schema["stack_profile_frame"] = s.frames.Columns()
	schema["stack_profile_callsite"] = s.callsites.Columns()
	schema["symbol"] = s.symbols.Columns()
	schema["heap_graph_object"] = s.heapObjects.Columns()
	schema["heap_graph_reference"] = s.heapReferences.Columns()
	schema["vulkan_memory_allocation"] = s.vulkanAllocs.Columns()
	return schema
}
