// Package stringpool interns byte strings into compact, dense
// StringIds. It is the leaf of the storage dependency graph: every
// other component that needs to store text (table names, categories,
// arg keys, ...) goes through a Pool.
package stringpool

import (
	"bytes"
	"hash/maphash"

	"github.com/zakerinasab/perfetto/ids"
)

// entry is one interned string. The backing slice of entries never
// relocates the byte slices it holds (Go slices of bytes are already
// heap-allocated independently of the entries slice's own backing
// array), so views returned by Get remain valid for the Pool's
// lifetime even as the Pool grows.
type entry struct {
	data []byte
}

// Pool interns byte strings and hands back dense StringIds. Id 0 is
// always the empty string, reserved at construction.
//
// Pool is not safe for concurrent use; the storage core as a whole is
// single-threaded.
type Pool struct {
	entries []entry
	byHash  map[uint64][]ids.StringId
	seed    maphash.Seed
}

// New returns a Pool with the empty string already interned at id 0.
func New() *Pool {
	p := &Pool{
		entries: make([]entry, 0, 1024),
		byHash:  make(map[uint64][]ids.StringId, 1024),
		seed:    maphash.MakeSeed(),
	}
	p.entries = append(p.entries, entry{data: []byte{}})
	return p
}

func (p *Pool) hash(b []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(p.seed)
	_, _ = h.Write(b)
	return h.Sum64()
}

// InternString inserts b if it is not already present and returns its
// StringId. Equal byte strings always return the same id; the
// operation never fails for a valid (including empty or nil) input.
func (p *Pool) InternString(b []byte) ids.StringId {
	if len(b) == 0 {
		return ids.NullStringId
	}
	h := p.hash(b)
	for _, candidate := range p.byHash[h] {
		if bytes.Equal(p.entries[candidate].data, b) {
			return candidate
		}
	}
	id := ids.StringId(len(p.entries))
	cp := make([]byte, len(b))
	copy(cp, b)
	p.entries = append(p.entries, entry{data: cp})
	p.byHash[h] = append(p.byHash[h], id)
	return id
}

// InternStringS is a convenience wrapper around InternString for Go
// strings.
func (p *Pool) InternStringS(s string) ids.StringId {
	return p.InternString([]byte(s))
}

// Get returns the bytes originally passed to InternString for id. The
// returned slice must not be mutated by the caller; it is a view into
// the pool's own storage.
func (p *Pool) Get(id ids.StringId) []byte {
	return p.entries[id].data
}

// GetString is a convenience wrapper around Get that copies into a Go
// string.
func (p *Pool) GetString(id ids.StringId) string {
	return string(p.entries[id].data)
}

// Size returns the number of interned entries, including the reserved
// empty string at id 0.
func (p *Pool) Size() int {
	return len(p.entries)
}
