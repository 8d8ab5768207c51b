// Package crm is the facade the tool surface talks to: it composes the
// pipeline state machine, the customer-memory store, and the
// qualification scorer into account-level operations.
package crm

import (
	"context"
	"fmt"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/memory"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/qualify"
)

// contextMessages is how many recent conversation turns feed the
// qualification evaluator.
const contextMessages = 10

// CRM wires the collaborating subsystems together.
type CRM struct {
	pipeline *pipeline.Manager
	store    *memory.Store
	scorer   *qualify.Scorer
}

// New builds the facade. All three collaborators are required.
func New(m *pipeline.Manager, store *memory.Store, scorer *qualify.Scorer) *CRM {
	return &CRM{pipeline: m, store: store, scorer: scorer}
}

// Pipeline exposes the underlying state machine for deal-level
// operations that need no cross-system coordination.
func (c *CRM) Pipeline() *pipeline.Manager {
	return c.pipeline
}

// Store exposes the customer-memory store.
func (c *CRM) Store() *memory.Store {
	return c.store
}

// CreateCustomerWithDealParams holds the inputs for onboarding a new
// account.
type CreateCustomerWithDealParams struct {
	CompanyName  string
	ContactName  string
	ContactEmail string
	InitialValue float64
}

// CreateCustomerWithDealResult pairs the new customer with its deal.
type CreateCustomerWithDealResult struct {
	Customer *memory.Customer `json:"customer"`
	Deal     *pipeline.Deal   `json:"deal"`
}

// CreateCustomerWithDeal registers a customer profile and opens its
// first deal in one step.
func (c *CRM) CreateCustomerWithDeal(p CreateCustomerWithDealParams) (*CreateCustomerWithDealResult, error) {
	cust, err := c.store.CreateCustomer(p.CompanyName)
	if err != nil {
		return nil, err
	}

	if p.ContactName != "" || p.ContactEmail != "" {
		cust, err = c.store.UpdateCustomer(cust.ID, memory.UpdateCustomerParams{
			ContactName:  &p.ContactName,
			ContactEmail: &p.ContactEmail,
		})
		if err != nil {
			return nil, err
		}
	}

	deal, err := c.pipeline.CreateDeal(pipeline.CreateDealParams{
		CustomerID:  cust.ID,
		CompanyName: cust.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	if p.InitialValue > 0 {
		deal, err = c.pipeline.UpdateDealValue(deal.ID, p.InitialValue)
		if err != nil {
			return nil, err
		}
	}
	return &CreateCustomerWithDealResult{Customer: cust, Deal: deal}, nil
}

// AdvanceDeal moves a deal to its next stage and logs the milestone on
// the account.
func (c *CRM) AdvanceDeal(dealID, note string) (*pipeline.Deal, error) {
	deal, err := c.pipeline.AdvanceDeal(dealID, note)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Deal advanced to %s", deal.Stage)
	if _, err := c.store.LogInteraction(memory.LogInteractionParams{
		CustomerID: deal.CustomerID,
		DealID:     deal.ID,
		Type:       memory.InteractionNote,
		Summary:    summary,
		Details:    note,
	}); err != nil {
		return nil, fmt.Errorf("log advancement: %w", err)
	}
	return deal, nil
}

// CloseDeal closes a deal and logs the outcome with matching sentiment.
func (c *CRM) CloseDeal(dealID string, won bool, reason string) (*pipeline.Deal, error) {
	deal, err := c.pipeline.CloseDeal(dealID, won, reason)
	if err != nil {
		return nil, err
	}

	summary := "Deal closed lost"
	sentiment := memory.SentimentNegative
	if won {
		summary = "Deal closed won"
		sentiment = memory.SentimentPositive
	}
	if _, err := c.store.LogInteraction(memory.LogInteractionParams{
		CustomerID: deal.CustomerID,
		DealID:     deal.ID,
		Type:       memory.InteractionNote,
		Summary:    summary,
		Details:    reason,
		Sentiment:  sentiment,
	}); err != nil {
		return nil, fmt.Errorf("log close: %w", err)
	}
	return deal, nil
}

// Customer360 is the complete account view.
type Customer360 struct {
	Customer     *memory.Customer     `json:"customer"`
	Deals        []*pipeline.Deal     `json:"deals"`
	Interactions []memory.Interaction `json:"interactions"`
	OpenDeals    int                  `json:"open_deals"`
	TotalValue   float64              `json:"total_value"`
}

// GetCustomer360 assembles profile, deals, and recent interactions for
// one account.
func (c *CRM) GetCustomer360(customerID string) (*Customer360, error) {
	cust, err := c.store.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}

	deals := c.pipeline.DealsByCustomer(customerID)
	interactions, err := c.store.RecentInteractions(customerID, 20)
	if err != nil {
		return nil, err
	}

	view := &Customer360{
		Customer:     cust,
		Deals:        deals,
		Interactions: interactions,
	}
	for _, d := range deals {
		view.TotalValue += d.Amount()
		if !d.Closed() {
			view.OpenDeals++
		}
	}
	return view, nil
}

// QualificationOutcome reports a qualification run and its effect on
// the deal.
type QualificationOutcome struct {
	Result   qualify.Result `json:"result"`
	Deal     *pipeline.Deal `json:"deal"`
	Advanced bool           `json:"advanced"`
}

// QualifyFromConversation gathers the customer's recent conversation
// context, scores it against the BANT criteria, records the verdict on
// the deal, and advances the deal out of Qualification when the
// readiness threshold is met.
func (c *CRM) QualifyFromConversation(ctx context.Context, customerID, dealID string) (*QualificationOutcome, error) {
	cust, err := c.store.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}

	messages, err := c.store.RecentContext(customerID, contextMessages)
	if err != nil {
		return nil, err
	}

	result := c.scorer.Analyze(ctx, memory.FormatContext(messages), qualify.CustomerContext{
		CompanyName: cust.CompanyName,
		Industry:    cust.Industry,
		CompanySize: cust.CompanySize,
	})

	deal, err := c.pipeline.GetDeal(dealID)
	if err != nil {
		return nil, err
	}

	// A fallback verdict carries no evidence; recording it would erase
	// flags earlier evaluations established.
	if !result.Fallback {
		for _, criterion := range pipeline.Criteria() {
			cr := result.Verdict
			var flag qualify.CriterionResult
			switch criterion {
			case pipeline.CriterionBudget:
				flag = cr.Budget
			case pipeline.CriterionAuthority:
				flag = cr.Authority
			case pipeline.CriterionNeed:
				flag = cr.Need
			default:
				flag = cr.Timeline
			}
			deal, err = c.pipeline.UpdateBANTScore(dealID, criterion, flag.Qualified, flag.Confidence)
			if err != nil {
				return nil, err
			}
		}
	}

	deal, advanced, err := c.pipeline.AdvanceIfReady(dealID)
	if err != nil {
		return nil, err
	}
	return &QualificationOutcome{Result: result, Deal: deal, Advanced: advanced}, nil
}

// NextQuestion returns the next qualifying question for the deal based
// on its recorded BANT flags.
func (c *CRM) NextQuestion(dealID string) (string, error) {
	deal, err := c.pipeline.GetDeal(dealID)
	if err != nil {
		return "", err
	}

	var v qualify.Verdict
	v.Budget.Qualified = deal.BANT.Budget.Qualified
	v.Authority.Qualified = deal.BANT.Authority.Qualified
	v.Need.Qualified = deal.BANT.Need.Qualified
	v.Timeline.Qualified = deal.BANT.Timeline.Qualified
	return qualify.NextQuestion(v), nil
}
