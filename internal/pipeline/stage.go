// Package pipeline implements the sales-pipeline decision engine: the
// deal-stage state machine, the durable deal registry, and the aggregate
// reporting that external presenters consume.
//
// Stages move strictly forward through the canonical open order, or jump
// directly from any open stage to a terminal close. Probability is never
// stored independently — it is derived from the stage via the Policy's
// probability table on every transition.
package pipeline

import "fmt"

// Stage is a discrete phase of a deal's lifecycle.
type Stage string

const (
	StageLead          Stage = "lead"
	StageQualification Stage = "qualification"
	StageDiscovery     Stage = "discovery"
	StageProposal      Stage = "proposal"
	StageNegotiation   Stage = "negotiation"
	StageClosedWon     Stage = "closed_won"
	StageClosedLost    Stage = "closed_lost"
)

// openOrder is the canonical forward order of the open (non-terminal) stages.
var openOrder = []Stage{
	StageLead,
	StageQualification,
	StageDiscovery,
	StageProposal,
	StageNegotiation,
}

// AllStages returns every stage in display order, open stages first.
func AllStages() []Stage {
	all := make([]Stage, 0, len(openOrder)+2)
	all = append(all, openOrder...)
	return append(all, StageClosedWon, StageClosedLost)
}

// Terminal reports whether the stage closes a deal.
func (s Stage) Terminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Valid reports whether s is one of the seven known stages.
func (s Stage) Valid() bool {
	if s.Terminal() {
		return true
	}
	return openIndex(s) >= 0
}

// openIndex returns the ordinal of an open stage, or -1 for terminal or
// unknown stages.
func openIndex(s Stage) int {
	for i, o := range openOrder {
		if o == s {
			return i
		}
	}
	return -1
}

// ParseStage converts a string into a Stage, erroring on unknown values.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, raw)
	}
	return s, nil
}

// Next returns the stage that follows s in the canonical open order.
// The second return is false when s has no successor (Negotiation closes
// via CloseDeal, and terminal stages go nowhere).
func (s Stage) Next() (Stage, bool) {
	idx := openIndex(s)
	if idx < 0 || idx == len(openOrder)-1 {
		return "", false
	}
	return openOrder[idx+1], true
}

// canTransition validates a requested move under the ordering invariant:
// same-stage (re-annotation), one step forward in the open order, or a
// direct jump to a terminal stage. Everything else is rejected.
func canTransition(from, to Stage) bool {
	if from.Terminal() {
		return false
	}
	if to == from {
		return true
	}
	if to.Terminal() {
		return true
	}
	fromIdx, toIdx := openIndex(from), openIndex(to)
	return fromIdx >= 0 && toIdx == fromIdx+1
}
