package storage

import (
	"go.skia.org/infra/go/sklog"

	"github.com/zakerinasab/perfetto/ids"
)

// ProcessRow is one row of the Process table.
type ProcessRow struct {
	StartNs    int64
	EndNs      int64
	NameId     ids.StringId
	Pid        int64
	ParentUpid ids.UniquePid
	HasParent  bool
	Uid        int64
	HasUid     bool
}

// ProcessTable is the Unique Process registry. Row 0 is always
// the reserved invalid/idle sentinel.
//
// Unlike ThreadTable, this is a plain slice: it may reallocate on
// growth, so callers must not retain a *ProcessRow across a later
// AddEmptyProcess call.
type ProcessTable struct {
	rows []ProcessRow
}

// NewProcessTable returns a registry with the id-0 sentinel already
// present.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{rows: []ProcessRow{{}}}
}

// AddEmptyProcess allocates a new UniquePid for pid with all other
// fields zeroed.
func (t *ProcessTable) AddEmptyProcess(pid int64) ids.UniquePid {
	t.rows = append(t.rows, ProcessRow{Pid: pid})
	return ids.UniquePid(len(t.rows) - 1)
}

// GetMutableProcess returns a pointer to the row for upid. The pointer
// is invalidated by the next AddEmptyProcess call.
func (t *ProcessTable) GetMutableProcess(upid ids.UniquePid) *ProcessRow {
	if int(upid) >= len(t.rows) {
		sklog.Errorf("storage.ProcessTable: upid %d out of range (count=%d)", upid, len(t.rows))
		panic("storage: upid out of range")
	}
	return &t.rows[upid]
}

// GetProcess is the read-only counterpart of GetMutableProcess.
func (t *ProcessTable) GetProcess(upid ids.UniquePid) ProcessRow {
	return *t.GetMutableProcess(upid)
}

// ProcessCount returns the number of rows, including the id-0 sentinel.
func (t *ProcessTable) ProcessCount() int { return len(t.rows) }
