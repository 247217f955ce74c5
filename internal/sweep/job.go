package sweep

import (
	"sweeplab/internal/data"
	"sweeplab/internal/process"
)

// Job is the surface shared by the atomic job and every sweep job: the
// process run interface plus record binding and preparation.
type Job interface {
	process.Process
	Record() *data.Record
	SetRecord(record *data.Record) error
	PrepareRecord(name string, rebuild bool) error
	SetGroup(group *data.Group)
}

var (
	_ Job = (*AtomJob)(nil)
	_ Job = (*Counter)(nil)
	_ Job = (*Scanner)(nil)
	_ Job = (*GridScanner)(nil)
)
