package crm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/memory"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/qualify"
)

// stubEvaluator returns a canned verdict regardless of evidence.
type stubEvaluator struct {
	verdict qualify.Verdict
	err     error
}

func (s stubEvaluator) Evaluate(context.Context, string, qualify.CustomerContext) (qualify.Verdict, error) {
	return s.verdict, s.err
}

func allQualified() qualify.Verdict {
	q := qualify.CriterionResult{Qualified: true, Confidence: pipeline.ConfidenceHigh}
	return qualify.Verdict{Budget: q, Authority: q, Need: q, Timeline: q}
}

func newTestCRM(t *testing.T, eval qualify.Evaluator) *CRM {
	t.Helper()
	dir := t.TempDir()

	reg, err := pipeline.OpenRegistry(dir)
	if err != nil {
		t.Fatalf("OpenRegistry: %v", err)
	}
	m, err := pipeline.NewManager(reg, pipeline.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	store, err := memory.New(memory.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(m, store, qualify.NewScorer(eval))
}

func TestCreateCustomerWithDeal(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{})

	res, err := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{
		CompanyName:  "Acme Corp",
		ContactName:  "Jordan Reyes",
		ContactEmail: "jordan@acme.example",
		InitialValue: 50000,
	})
	if err != nil {
		t.Fatalf("CreateCustomerWithDeal: %v", err)
	}
	if res.Customer.ContactName != "Jordan Reyes" {
		t.Errorf("contact = %q", res.Customer.ContactName)
	}
	if res.Deal.CustomerID != res.Customer.ID {
		t.Error("deal must belong to the new customer")
	}
	if res.Deal.Stage != pipeline.StageLead || res.Deal.Amount() != 50000 {
		t.Errorf("deal = %+v, want lead stage with value 50000", res.Deal)
	}
}

func TestAdvanceDeal_LogsInteraction(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{})
	res, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Acme Corp"})

	deal, err := c.AdvanceDeal(res.Deal.ID, "intro call went well")
	if err != nil {
		t.Fatalf("AdvanceDeal: %v", err)
	}
	if deal.Stage != pipeline.StageQualification {
		t.Errorf("stage = %s, want qualification", deal.Stage)
	}

	logged, err := c.Store().DealInteractions(deal.ID)
	if err != nil {
		t.Fatalf("DealInteractions: %v", err)
	}
	if len(logged) != 1 || !strings.Contains(logged[0].Summary, "qualification") {
		t.Errorf("interactions = %+v, want one advancement note", logged)
	}
}

func TestCloseDeal_SentimentFollowsOutcome(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{})
	won, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Winner Inc"})
	lost, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Walker LLC"})

	if _, err := c.CloseDeal(won.Deal.ID, true, "signed annual contract"); err != nil {
		t.Fatalf("CloseDeal won: %v", err)
	}
	if _, err := c.CloseDeal(lost.Deal.ID, false, "went with incumbent"); err != nil {
		t.Fatalf("CloseDeal lost: %v", err)
	}

	wonLog, _ := c.Store().DealInteractions(won.Deal.ID)
	if len(wonLog) != 1 || wonLog[0].Sentiment != memory.SentimentPositive {
		t.Errorf("won log = %+v, want positive sentiment", wonLog)
	}
	lostLog, _ := c.Store().DealInteractions(lost.Deal.ID)
	if len(lostLog) != 1 || lostLog[0].Sentiment != memory.SentimentNegative {
		t.Errorf("lost log = %+v, want negative sentiment", lostLog)
	}
}

func TestGetCustomer360(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{})
	res, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{
		CompanyName:  "Acme Corp",
		InitialValue: 30000,
	})
	c.Store().LogInteraction(memory.LogInteractionParams{
		CustomerID: res.Customer.ID,
		DealID:     res.Deal.ID,
		Type:       memory.InteractionCall,
		Summary:    "discovery call",
	})

	view, err := c.GetCustomer360(res.Customer.ID)
	if err != nil {
		t.Fatalf("GetCustomer360: %v", err)
	}
	if view.OpenDeals != 1 || view.TotalValue != 30000 {
		t.Errorf("view = %+v", view)
	}
	if len(view.Deals) != 1 || len(view.Interactions) != 1 {
		t.Errorf("deals=%d interactions=%d, want 1/1", len(view.Deals), len(view.Interactions))
	}

	if _, err := c.GetCustomer360("CUST-none"); !errors.Is(err, memory.ErrCustomerNotFound) {
		t.Errorf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestQualifyFromConversation_AdvancesWhenReady(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{verdict: allQualified()})
	res, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Acme Corp"})

	// The advancement rule only fires from Qualification.
	if _, err := c.AdvanceDeal(res.Deal.ID, ""); err != nil {
		t.Fatalf("AdvanceDeal: %v", err)
	}
	c.Store().AddMessage(res.Customer.ID, res.Deal.ID, "user", "We have $50K budget and our VP signs off; need this by Q1.")

	out, err := c.QualifyFromConversation(context.Background(), res.Customer.ID, res.Deal.ID)
	if err != nil {
		t.Fatalf("QualifyFromConversation: %v", err)
	}
	if out.Result.OverallScore != 4 || out.Result.Recommendation != qualify.RecommendQualify {
		t.Errorf("result = %+v", out.Result)
	}
	if !out.Advanced {
		t.Fatal("fully qualified deal in Qualification should advance")
	}
	if out.Deal.Stage != pipeline.StageDiscovery {
		t.Errorf("stage = %s, want discovery", out.Deal.Stage)
	}
	if out.Deal.BANT.ReadinessCount() != 4 {
		t.Errorf("readiness = %d, want 4", out.Deal.BANT.ReadinessCount())
	}
}

func TestQualifyFromConversation_FallbackDoesNotEraseFlags(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{err: errors.New("model down")})
	res, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Acme Corp"})
	c.AdvanceDeal(res.Deal.ID, "")

	// Earlier evidence already qualified budget.
	if _, err := c.Pipeline().UpdateBANTScore(res.Deal.ID, pipeline.CriterionBudget, true, pipeline.ConfidenceHigh); err != nil {
		t.Fatalf("UpdateBANTScore: %v", err)
	}

	out, err := c.QualifyFromConversation(context.Background(), res.Customer.ID, res.Deal.ID)
	if err != nil {
		t.Fatalf("QualifyFromConversation: %v", err)
	}
	if !out.Result.Fallback {
		t.Fatal("evaluator failure should surface as fallback")
	}
	if !out.Deal.BANT.Budget.Qualified {
		t.Error("fallback verdict must not clear previously recorded flags")
	}
	if out.Advanced {
		t.Error("fallback must not advance the deal")
	}
}

func TestNextQuestion_FromRecordedFlags(t *testing.T) {
	c := newTestCRM(t, stubEvaluator{})
	res, _ := c.CreateCustomerWithDeal(CreateCustomerWithDealParams{CompanyName: "Acme Corp"})

	q, err := c.NextQuestion(res.Deal.ID)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if !strings.Contains(q, "budget") {
		t.Errorf("question = %q, want budget focus first", q)
	}

	c.Pipeline().UpdateBANTScore(res.Deal.ID, pipeline.CriterionBudget, true, pipeline.ConfidenceHigh)
	q, _ = c.NextQuestion(res.Deal.ID)
	if !strings.Contains(q, "evaluating and approving") {
		t.Errorf("question = %q, want authority focus next", q)
	}
}
