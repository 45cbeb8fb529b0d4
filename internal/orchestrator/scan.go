package orchestrator

import (
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
)

// State is the lifecycle position of a scan.
type State int

const (
	StateCreated State = iota
	StateDerivingCandidates
	StateDispatching
	StateDispatched
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDerivingCandidates:
		return "deriving_candidates"
	case StateDispatching:
		return "dispatching"
	case StateDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// Task kinds, used as log fields and metric labels.
const (
	TaskKindSourceMap        = "source_map"
	TaskKindInterestingStuff = "interesting_stuff"
)

// CandidateSet holds unique targets keyed by canonical form, in insertion order.
type CandidateSet struct {
	order []urlhandler.Target
	seen  map[string]struct{}
}

// NewCandidateSet creates an empty set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{seen: make(map[string]struct{})}
}

// Add inserts target unless its canonical form is already present.
// It reports whether the target was new.
func (cs *CandidateSet) Add(target urlhandler.Target) bool {
	key := urlhandler.Canonicalize(target)
	if _, ok := cs.seen[key]; ok {
		return false
	}
	cs.seen[key] = struct{}{}
	cs.order = append(cs.order, target)
	return true
}

// Contains reports whether a target with the same canonical form was added.
func (cs *CandidateSet) Contains(target urlhandler.Target) bool {
	_, ok := cs.seen[urlhandler.Canonicalize(target)]
	return ok
}

// Len returns the number of unique candidates.
func (cs *CandidateSet) Len() int {
	return len(cs.order)
}

// Targets returns the candidates in insertion order.
func (cs *CandidateSet) Targets() []urlhandler.Target {
	out := make([]urlhandler.Target, len(cs.order))
	copy(out, cs.order)
	return out
}

// Strings returns the canonical forms in insertion order.
func (cs *CandidateSet) Strings() []string {
	out := make([]string, len(cs.order))
	for i, t := range cs.order {
		out[i] = urlhandler.Canonicalize(t)
	}
	return out
}

// Scan is the result of StartScan. It is not touched by the dispatched tasks.
type Scan struct {
	Request        models.ScanRequest
	Candidates     *CandidateSet
	SnapshotSize   int
	SubmittedTasks int
	state          State
}

// State returns the scan's lifecycle state.
func (s *Scan) State() State {
	return s.state
}
