package storage

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zakerinasab/perfetto/ids"
)

// mappingKey is (name_id, build_id), the dedup key stack-profile
// mappings are indexed by.
type mappingKey struct {
	NameId  ids.StringId
	BuildId ids.StringId
}

// frameKey is (mapping_row, rel_pc), the dedup key stack-profile
// frames are indexed by.
type frameKey struct {
	MappingId ids.MappingId
	RelPc     uint64
}

// indexCacheSize bounds the LRU front-cache in front of each index's
// authoritative map. It is pure acceleration: a cache miss always falls
// through to the exact map below it, so correctness never depends on
// its size.
const indexCacheSize = 4096

// MappingIndex maintains (name_id, build_id) -> [mapping_row], the
// secondary index a parser uses to dedup StackProfileMapping rows. The
// storage only stores and looks up; it never auto-maintains this from
// MappingTable inserts.
type MappingIndex struct {
	authoritative map[mappingKey][]ids.MappingId
	cache         *lru.Cache[mappingKey, []ids.MappingId]
}

// NewMappingIndex returns an empty MappingIndex.
func NewMappingIndex() *MappingIndex {
	cache, err := lru.New[mappingKey, []ids.MappingId](indexCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// indexCacheSize never is.
		panic(err)
	}
	return &MappingIndex{
		authoritative: make(map[mappingKey][]ids.MappingId),
		cache:         cache,
	}
}

// Insert records that row is a mapping matching (nameId, buildId).
func (m *MappingIndex) Insert(nameId, buildId ids.StringId, row ids.MappingId) {
	key := mappingKey{NameId: nameId, BuildId: buildId}
	m.authoritative[key] = append(m.authoritative[key], row)
	m.cache.Remove(key)
}

// Lookup returns every mapping row previously inserted under
// (nameId, buildId).
func (m *MappingIndex) Lookup(nameId, buildId ids.StringId) []ids.MappingId {
	key := mappingKey{NameId: nameId, BuildId: buildId}
	if rows, ok := m.cache.Get(key); ok {
		return rows
	}
	rows := m.authoritative[key]
	m.cache.Add(key, rows)
	return rows
}

// FrameIndex maintains (mapping_row, rel_pc) -> [frame_row], the
// secondary index the parser uses to dedup StackProfileFrame rows.
type FrameIndex struct {
	authoritative map[frameKey][]ids.FrameId
	cache         *lru.Cache[frameKey, []ids.FrameId]
}

// NewFrameIndex returns an empty FrameIndex.
func NewFrameIndex() *FrameIndex {
	cache, err := lru.New[frameKey, []ids.FrameId](indexCacheSize)
	if err != nil {
		panic(err)
	}
	return &FrameIndex{
		authoritative: make(map[frameKey][]ids.FrameId),
		cache:         cache,
	}
}

// Insert records that row is a frame matching (mappingId, relPc).
func (f *FrameIndex) Insert(mappingId ids.MappingId, relPc uint64, row ids.FrameId) {
	key := frameKey{MappingId: mappingId, RelPc: relPc}
	f.authoritative[key] = append(f.authoritative[key], row)
	f.cache.Remove(key)
}

// Lookup returns every frame row previously inserted under
// (mappingId, relPc).
func (f *FrameIndex) Lookup(mappingId ids.MappingId, relPc uint64) []ids.FrameId {
	key := frameKey{MappingId: mappingId, RelPc: relPc}
	if rows, ok := f.cache.Get(key); ok {
		return rows
	}
	rows := f.authoritative[key]
	f.cache.Add(key, rows)
	return rows
}
