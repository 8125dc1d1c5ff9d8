package storage

import (
	"go.skia.org/infra/go/sklog"

	"github.com/zakerinasab/perfetto/ids"
)

// threadChunkSize bounds each backing chunk of the Thread table. Chunks
// are never reallocated once allocated, so a *ThreadRow handed out by
// GetMutableThread stays valid for the registry's lifetime, however
// many more threads are later added.
const threadChunkSize = 4096

// ThreadRow is one row of the Thread table.
type ThreadRow struct {
	StartNs int64
	EndNs   int64
	NameId  ids.StringId
	Upid    ids.UniquePid
	HasUpid bool
	Tid     int64
}

// ThreadTable is the Unique Thread registry. Row 0 is always the
// reserved invalid/idle sentinel. It is backed by fixed-size chunks so
// that growing the table never relocates an already-returned row
// pointer.
type ThreadTable struct {
	chunks []*[threadChunkSize]ThreadRow
	count  int
}

// NewThreadTable returns a registry with the id-0 sentinel already
// present.
func NewThreadTable() *ThreadTable {
	t := &ThreadTable{}
	t.appendRow(ThreadRow{Tid: 0})
	return t
}

func (t *ThreadTable) appendRow(row ThreadRow) ids.UniqueTid {
	chunkIdx := t.count / threadChunkSize
	offset := t.count % threadChunkSize
	if chunkIdx == len(t.chunks) {
		t.chunks = append(t.chunks, &[threadChunkSize]ThreadRow{})
	}
	t.chunks[chunkIdx][offset] = row
	id := ids.UniqueTid(t.count)
	t.count++
	return id
}

// AddEmptyThread allocates a new UniqueTid for tid with all other
// fields zeroed, and returns the new dense id. Ids are contiguous from
// 0 (the sentinel) and strictly increase by 1 per call.
func (t *ThreadTable) AddEmptyThread(tid int64) ids.UniqueTid {
	return t.appendRow(ThreadRow{Tid: tid})
}

// GetMutableThread returns a stable pointer to the row for utid. The
// pointer remains valid across later AddEmptyThread calls.
func (t *ThreadTable) GetMutableThread(utid ids.UniqueTid) *ThreadRow {
	if int(utid) >= t.count {
		sklog.Errorf("storage.ThreadTable: utid %d out of range (count=%d)", utid, t.count)
		panic("storage: utid out of range")
	}
	return &t.chunks[int(utid)/threadChunkSize][int(utid)%threadChunkSize]
}

// GetThread is the read-only counterpart of GetMutableThread.
func (t *ThreadTable) GetThread(utid ids.UniqueTid) ThreadRow {
	return *t.GetMutableThread(utid)
}

// ThreadCount returns the number of rows, including the id-0 sentinel.
func (t *ThreadTable) ThreadCount() int { return t.count }
