package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newDealID is a package-level variable for test injection. Deal IDs keep
// the human-scannable timestamp prefix of the original records with a
// random suffix so two deals created in the same second never collide.
var newDealID = func() string {
	return fmt.Sprintf("DEAL-%s-%s", timeNow().UTC().Format("20060102150405"), uuid.NewString()[:8])
}

// Manager is the pipeline state machine: the single source of truth for
// what stage a deal is in. All mutations flow through the Registry, which
// guarantees the snapshot-before-commit discipline.
type Manager struct {
	policy Policy
	reg    *Registry
}

// NewManager validates the policy once and returns a ready manager.
func NewManager(reg *Registry, policy Policy) (*Manager, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Manager{policy: policy, reg: reg}, nil
}

// Policy returns the manager's validated policy.
func (m *Manager) Policy() Policy {
	return m.policy
}

// CreateDealParams carries the inputs for CreateDeal.
type CreateDealParams struct {
	CustomerID  string
	CompanyName string

	// SingleActive enables the at-most-one-open-deal-per-customer policy.
	// The engine exposes the check; whether to enforce it is the caller's
	// decision.
	SingleActive bool
}

// CreateDeal opens a new deal at the Lead stage with derived probability,
// empty history, and no value set.
func (m *Manager) CreateDeal(p CreateDealParams) (*Deal, error) {
	if p.CustomerID == "" {
		return nil, fmt.Errorf("create deal: customer id is required")
	}

	if p.SingleActive {
		for _, d := range m.reg.ByCustomer(p.CustomerID) {
			if !d.Closed() {
				return nil, fmt.Errorf("%w: customer %q has open deal %q", ErrDuplicateActiveDeal, p.CustomerID, d.ID)
			}
		}
	}

	now := timeNow().UTC().Format(time.RFC3339)
	deal := &Deal{
		ID:          newDealID(),
		CustomerID:  p.CustomerID,
		CompanyName: p.CompanyName,
		Stage:       StageLead,
		Probability: m.policy.probability(StageLead),
		History:     []Transition{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.reg.Insert(deal); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	return deal, nil
}

// MoveDeal validates the transition and, on success, appends a history
// entry, updates the stage and its derived probability, and persists —
// all as one atomic unit. Requesting the current stage is an idempotent
// success that still records a history entry for re-annotation.
func (m *Manager) MoveDeal(id string, target Stage, note string) (*Deal, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, target)
	}

	return m.reg.Update(id, func(d *Deal) error {
		if d.Closed() {
			return fmt.Errorf("%w: deal %q is %s", ErrAlreadyClosed, d.ID, d.Stage)
		}
		if !canTransition(d.Stage, target) {
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, d.Stage, target)
		}

		now := timeNow().UTC().Format(time.RFC3339)
		d.History = append(d.History, Transition{
			FromStage: d.Stage,
			ToStage:   target,
			Note:      note,
			Timestamp: now,
		})
		d.Stage = target
		d.Probability = m.policy.probability(target)
		d.UpdatedAt = now
		return nil
	})
}

// CloseDeal is sugar for moving to a terminal stage.
func (m *Manager) CloseDeal(id string, won bool, reason string) (*Deal, error) {
	target := StageClosedLost
	outcome := "lost"
	if won {
		target = StageClosedWon
		outcome = "won"
	}

	note := fmt.Sprintf("Deal %s", outcome)
	if reason != "" {
		note = fmt.Sprintf("%s: %s", outcome, reason)
	}
	return m.MoveDeal(id, target, note)
}

// AdvanceDeal moves a deal to the next stage in the canonical order;
// from Negotiation the next step is ClosedWon.
func (m *Manager) AdvanceDeal(id, note string) (*Deal, error) {
	d, err := m.reg.Get(id)
	if err != nil {
		return nil, err
	}
	if d.Closed() {
		return nil, fmt.Errorf("%w: deal %q is %s", ErrAlreadyClosed, d.ID, d.Stage)
	}

	next, ok := d.Stage.Next()
	if !ok {
		next = StageClosedWon
	}
	return m.MoveDeal(id, next, note)
}

// UpdateDealValue sets the deal's monetary amount. Negative values are
// rejected; stage and probability are untouched.
func (m *Manager) UpdateDealValue(id string, value float64) (*Deal, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, value)
	}

	return m.reg.Update(id, func(d *Deal) error {
		d.Value = &value
		d.UpdatedAt = timeNow().UTC().Format(time.RFC3339)
		return nil
	})
}

// UpdateBANTScore records one criterion's verdict and confidence on the
// deal. Validation happens before any field changes, so a bad criterion
// or confidence leaves the deal untouched.
func (m *Manager) UpdateBANTScore(id string, criterion Criterion, qualified bool, conf Confidence) (*Deal, error) {
	return m.reg.Update(id, func(d *Deal) error {
		if err := d.BANT.Set(criterion, qualified, conf); err != nil {
			return err
		}
		d.UpdatedAt = timeNow().UTC().Format(time.RFC3339)
		return nil
	})
}

// AdvanceIfReady applies the qualification-advancement rule: a deal in
// Qualification whose readiness count has reached the policy threshold
// moves to Discovery. Anything else is a no-op. The boolean reports
// whether an advancement happened.
func (m *Manager) AdvanceIfReady(id string) (*Deal, bool, error) {
	d, err := m.reg.Get(id)
	if err != nil {
		return nil, false, err
	}

	if d.Stage != StageQualification || d.BANT.ReadinessCount() < m.policy.ReadinessThreshold {
		return d, false, nil
	}

	moved, err := m.MoveDeal(id, StageDiscovery, "Fully qualified — all readiness criteria met")
	if err != nil {
		return nil, false, err
	}
	return moved, true, nil
}

// GetDeal returns a copy of the deal, or ErrNotFound.
func (m *Manager) GetDeal(id string) (*Deal, error) {
	return m.reg.Get(id)
}

// DealsByCustomer returns the customer's deals, oldest first. Unknown
// customers yield an empty slice.
func (m *Manager) DealsByCustomer(customerID string) []*Deal {
	return m.reg.ByCustomer(customerID)
}

// StageBreakdown is the per-stage slice of a pipeline summary.
type StageBreakdown struct {
	Stage Stage   `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Summary is the aggregate pipeline report. WeightedValue is
// Σ value × probability/100 over open deals only.
type Summary struct {
	TotalDeals    int              `json:"total_deals"`
	TotalValue    float64          `json:"total_value"`
	WeightedValue float64          `json:"weighted_value"`
	ByStage       []StageBreakdown `json:"by_stage"`
}

// PipelineSummary aggregates the current registry state. It is a pure
// function of that state: same deals in, same report out.
func (m *Manager) PipelineSummary() Summary {
	byStage := make(map[Stage]*StageBreakdown, 7)
	summary := Summary{}

	for _, s := range AllStages() {
		byStage[s] = &StageBreakdown{Stage: s}
	}

	for _, d := range m.reg.All() {
		summary.TotalDeals++
		summary.TotalValue += d.Amount()
		if !d.Closed() {
			summary.WeightedValue += d.Amount() * float64(d.Probability) / 100
		}

		b := byStage[d.Stage]
		b.Count++
		b.Value += d.Amount()
	}

	for _, s := range AllStages() {
		summary.ByStage = append(summary.ByStage, *byStage[s])
	}
	return summary
}
