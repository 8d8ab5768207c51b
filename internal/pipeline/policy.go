package pipeline

import "fmt"

// Policy groups the overridable business constants of the pipeline.
// The numeric defaults are conventional, not contractual — callers that
// need different probabilities or a softer advancement rule construct
// their own Policy and validate it once at startup.
type Policy struct {
	// Probabilities maps every stage to its win probability (0–100).
	// The table must be total over all seven stages; a deal's probability
	// field is always exactly the lookup value for its current stage.
	Probabilities map[Stage]int

	// ReadinessThreshold is the BANT readiness count (0–4) at which a
	// deal in Qualification auto-advances to Discovery.
	ReadinessThreshold int
}

// DefaultPolicy returns the stock policy: full qualification (all four
// BANT criteria) triggers advancement, probabilities step up through the
// open stages and resolve to 100/0 at close.
func DefaultPolicy() Policy {
	return Policy{
		Probabilities: map[Stage]int{
			StageLead:          10,
			StageQualification: 25,
			StageDiscovery:     40,
			StageProposal:      60,
			StageNegotiation:   80,
			StageClosedWon:     100,
			StageClosedLost:    0,
		},
		ReadinessThreshold: 4,
	}
}

// Validate checks the policy is usable: the probability table covers every
// stage with an in-range value, and the readiness threshold is attainable.
// An unmapped stage would otherwise fall through to a silent zero.
func (p Policy) Validate() error {
	for _, s := range AllStages() {
		prob, ok := p.Probabilities[s]
		if !ok {
			return fmt.Errorf("policy: no probability mapped for stage %q", s)
		}
		if prob < 0 || prob > 100 {
			return fmt.Errorf("policy: probability for stage %q is %d, must be 0-100", s, prob)
		}
	}
	if p.ReadinessThreshold < 1 || p.ReadinessThreshold > 4 {
		return fmt.Errorf("policy: readiness threshold %d out of range 1-4", p.ReadinessThreshold)
	}
	return nil
}

// probability returns the lookup value for a stage. Policies are validated
// at Manager construction, so the table is known to be total here.
func (p Policy) probability(s Stage) int {
	return p.Probabilities[s]
}
