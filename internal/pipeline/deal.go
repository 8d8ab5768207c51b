package pipeline

import "fmt"

// Criterion names one of the four BANT qualification checks.
type Criterion string

const (
	CriterionBudget    Criterion = "budget"
	CriterionAuthority Criterion = "authority"
	CriterionNeed      Criterion = "need"
	CriterionTimeline  Criterion = "timeline"
)

// Criteria lists the four BANT criteria in their fixed priority order:
// budget, then authority, then need, then timeline. The qualifier's
// next-question selection depends on this ordering.
func Criteria() []Criterion {
	return []Criterion{CriterionBudget, CriterionAuthority, CriterionNeed, CriterionTimeline}
}

// Confidence is the evaluator's certainty tier for a BANT flag.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ValidConfidence reports whether c is a known tier.
func ValidConfidence(c Confidence) bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// BANTFlag is one criterion's current verdict on a deal.
type BANTFlag struct {
	Qualified  bool       `json:"qualified"`
	Confidence Confidence `json:"confidence"`
}

// BANT holds the four readiness flags. The zero value is the correct
// default: nothing qualified, all confidence low (empty string is
// normalized to low on Set).
type BANT struct {
	Budget    BANTFlag `json:"budget"`
	Authority BANTFlag `json:"authority"`
	Need      BANTFlag `json:"need"`
	Timeline  BANTFlag `json:"timeline"`
}

// flag returns a pointer to the named criterion's flag, or nil.
func (b *BANT) flag(c Criterion) *BANTFlag {
	switch c {
	case CriterionBudget:
		return &b.Budget
	case CriterionAuthority:
		return &b.Authority
	case CriterionNeed:
		return &b.Need
	case CriterionTimeline:
		return &b.Timeline
	}
	return nil
}

// Get returns the flag for the named criterion.
func (b BANT) Get(c Criterion) (BANTFlag, error) {
	f := (&b).flag(c)
	if f == nil {
		return BANTFlag{}, fmt.Errorf("%w: %q", ErrUnknownCriterion, c)
	}
	return *f, nil
}

// Set updates one criterion's verdict. Clearing a previously qualified
// flag is allowed — readiness regresses when new evidence contradicts old.
func (b *BANT) Set(c Criterion, qualified bool, conf Confidence) error {
	f := b.flag(c)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCriterion, c)
	}
	if conf == "" {
		conf = ConfidenceLow
	}
	if !ValidConfidence(conf) {
		return fmt.Errorf("invalid confidence %q: must be low, medium, or high", conf)
	}
	f.Qualified = qualified
	f.Confidence = conf
	return nil
}

// ReadinessCount is the number of qualified criteria (0–4).
func (b BANT) ReadinessCount() int {
	count := 0
	for _, c := range Criteria() {
		if f := (&b).flag(c); f.Qualified {
			count++
		}
	}
	return count
}

// Transition is one append-only history entry. Same-stage entries record
// re-annotations; the first entry of any deal has FromStage == lead.
type Transition struct {
	FromStage Stage  `json:"from_stage"`
	ToStage   Stage  `json:"to_stage"`
	Note      string `json:"note,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Deal is one tracked sales opportunity.
type Deal struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	CompanyName string `json:"company_name"`
	Stage       Stage  `json:"stage"`

	// Value is the deal's monetary amount; nil until explicitly set,
	// so an unset value is distinguishable from a genuine zero.
	Value *float64 `json:"value,omitempty"`

	// Probability is derived from Stage via the policy table and is
	// never hand-set.
	Probability int `json:"probability"`

	BANT    BANT         `json:"bant"`
	History []Transition `json:"history"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Closed reports whether the deal is in a terminal stage.
func (d *Deal) Closed() bool {
	return d.Stage.Terminal()
}

// Amount returns the deal value, treating unset as zero.
func (d *Deal) Amount() float64 {
	if d.Value == nil {
		return 0
	}
	return *d.Value
}

// clone deep-copies the deal so registry callers can never alias the
// stored record.
func (d *Deal) clone() *Deal {
	cp := *d
	if d.Value != nil {
		v := *d.Value
		cp.Value = &v
	}
	cp.History = make([]Transition, len(d.History))
	copy(cp.History, d.History)
	return &cp
}
