package mts

// PidKind classifies what a PID carries, as learned from PAT/PMT.
type PidKind int

const (
	KindUnknown PidKind = iota
	KindPat
	KindPmt
	KindPes
)

// PidTable is the demuxer's record of which PIDs carry what, learned
// dynamically from PAT/PMT as they're seen on the stream.
type PidTable struct {
	m map[uint16]PidKind
}

// NewPidTable returns a PidTable seeded with the well-known PAT PID.
func NewPidTable() *PidTable {
	return &PidTable{m: map[uint16]PidKind{PatPID: KindPat}}
}

// Kind returns the kind of pid, or KindUnknown if it hasn't been learned.
func (t *PidTable) Kind(pid uint16) PidKind {
	if k, ok := t.m[pid]; ok {
		return k
	}
	return KindUnknown
}

// Set records that pid carries kind.
func (t *PidTable) Set(pid uint16, kind PidKind) { t.m[pid] = kind }
