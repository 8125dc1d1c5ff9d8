// Package args implements the content-addressed argument store and the
// batching tracker in front of it.
package args

import (
	"hash/maphash"

	"go.skia.org/infra/go/sklog"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/variadic"
)

// Arg is one key/value triple destined for a specific table row.
type Arg struct {
	FlatKey ids.StringId
	Key     ids.StringId
	Value   variadic.Variadic

	Table ids.TableId
	Row   ids.RowId
}

func (a Arg) hash(seed maphash.Seed) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeUint64(&h, uint64(a.Key))
	// flat_key is excluded: it is derivable from key and carries no
	// independent identity.
	writeUint64(&h, a.Value.Hash())
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

// Store is the append-only log of interned argument sets: four parallel
// columns (set id, flat key, key, value) plus a fingerprint index used
// to deduplicate sets with identical ordered content.
type Store struct {
	setIds   []ids.ArgSetId
	flatKeys []ids.StringId
	keys     []ids.StringId
	values   []variadic.Variadic

	// fingerprintToSetId maps a folded content hash to the ArgSetId it
	// produced the first time it was seen.
	fingerprintToSetId map[uint64]ids.ArgSetId

	seed maphash.Seed
}

// NewStore returns an empty Args Store.
func NewStore() *Store {
	return &Store{
		fingerprintToSetId: make(map[uint64]ids.ArgSetId),
		seed:               maphash.MakeSeed(),
	}
}

// fingerprint folds each argument's (key, value) hash, in order, into a
// single 64-bit digest. Two slices with identical ordered (key, value)
// content always fold to the same digest.
func (s *Store) fingerprint(buf []Arg, begin, end int) uint64 {
	var h maphash.Hash
	h.SetSeed(s.seed)
	for i := begin; i < end; i++ {
		writeUint64(&h, buf[i].hash(s.seed))
	}
	return h.Sum64()
}

// AddArgSet interns the ordered slice buf[begin:end), all of which must
// target the same destination row, and returns its ArgSetId. Two calls
// with structurally identical ordered, typed arguments return the same
// id. The slice must be non-empty.
func (s *Store) AddArgSet(buf []Arg, begin, end int) ids.ArgSetId {
	if begin >= end {
		sklog.Errorf("args.Store.AddArgSet called with an empty range [%d,%d)", begin, end)
		panic("args: AddArgSet requires a non-empty range")
	}

	digest := s.fingerprint(buf, begin, end)
	if id, ok := s.fingerprintToSetId[digest]; ok {
		return id
	}

	// The +1 ensures no set ever gets id == InvalidArgSetId == 0.
	id := ids.ArgSetId(len(s.fingerprintToSetId) + 1)
	s.fingerprintToSetId[digest] = id
	for i := begin; i < end; i++ {
		s.setIds = append(s.setIds, id)
		s.flatKeys = append(s.flatKeys, buf[i].FlatKey)
		s.keys = append(s.keys, buf[i].Key)
		s.values = append(s.values, buf[i].Value)
	}
	return id
}

// SetIds returns the set_id column.
func (s *Store) SetIds() []ids.ArgSetId { return s.setIds }

// FlatKeys returns the flat_key column.
func (s *Store) FlatKeys() []ids.StringId { return s.flatKeys }

// Keys returns the key column.
func (s *Store) Keys() []ids.StringId { return s.keys }

// Values returns the value column.
func (s *Store) Values() []variadic.Variadic { return s.values }

// ArgsCount returns the total number of (set-member) rows stored,
// across every set.
func (s *Store) ArgsCount() int { return len(s.setIds) }

// SetCount returns the number of distinct argument sets interned so
// far.
func (s *Store) SetCount() int { return len(s.fingerprintToSetId) }

// ArgsForSet returns the ordered triples belonging to id, or nil if id
// is InvalidArgSetId or unknown. This is a linear scan over the whole
// store; callers needing repeated lookups should build their own index
// from SetIds() once ingestion is complete.
func (s *Store) ArgsForSet(id ids.ArgSetId) []Arg {
	if id == ids.InvalidArgSetId {
		return nil
	}
	var out []Arg
	started := false
	for i, sid := range s.setIds {
		if sid == id {
			started = true
			out = append(out, Arg{
				FlatKey: s.flatKeys[i],
				Key:     s.keys[i],
				Value:   s.values[i],
			})
		} else if started {
			break
		}
	}
	return out
}
