// Package qualify scores sales opportunities against the four BANT
// readiness criteria (budget, authority, need, timeline). Interpreting
// conversational evidence is delegated to an injected Evaluator; the
// aggregation, recommendation mapping, and fallback behavior here are
// deterministic and tested without any language model.
package qualify

import (
	"context"
	"log"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
)

// Recommendation is the scorer's disposition for a lead.
type Recommendation string

const (
	RecommendQualify    Recommendation = "qualify"
	RecommendNurture    Recommendation = "nurture"
	RecommendDisqualify Recommendation = "disqualify"
)

// CustomerContext is the structured profile handed to the evaluator as
// prompt context. It carries no algorithmic weight.
type CustomerContext struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
}

// CriterionResult is the evaluator's finding for one BANT criterion.
type CriterionResult struct {
	Qualified  bool                `json:"qualified"`
	Evidence   string              `json:"evidence"`
	Notes      string              `json:"notes"`
	Confidence pipeline.Confidence `json:"confidence"`
}

// Verdict is the raw per-criterion output of an Evaluator, before
// deterministic aggregation.
type Verdict struct {
	Budget    CriterionResult `json:"budget"`
	Authority CriterionResult `json:"authority"`
	Need      CriterionResult `json:"need"`
	Timeline  CriterionResult `json:"timeline"`
	NextSteps []string        `json:"next_steps"`
}

func (v Verdict) result(c pipeline.Criterion) CriterionResult {
	switch c {
	case pipeline.CriterionBudget:
		return v.Budget
	case pipeline.CriterionAuthority:
		return v.Authority
	case pipeline.CriterionNeed:
		return v.Need
	default:
		return v.Timeline
	}
}

// Result is the scorer's complete output: the verdict plus the
// deterministic aggregates. Fallback reports whether the evaluator
// failed and the safe default verdict was substituted.
type Result struct {
	Verdict
	OverallScore       int                  `json:"overall_score"`
	Recommendation     Recommendation       `json:"recommendation"`
	MissingInformation []pipeline.Criterion `json:"missing_information"`
	Fallback           bool                 `json:"fallback,omitempty"`
}

// Evaluator turns conversational evidence into a per-criterion verdict.
// Implementations are free to be non-deterministic; errors are absorbed
// by the scorer's fallback, never propagated.
type Evaluator interface {
	Evaluate(ctx context.Context, evidence string, customer CustomerContext) (Verdict, error)
}

// Scorer wraps an Evaluator with the deterministic BANT contract.
type Scorer struct {
	eval Evaluator
}

func NewScorer(eval Evaluator) *Scorer {
	return &Scorer{eval: eval}
}

// Analyze runs one evaluation attempt and aggregates the verdict. Any
// evaluator failure — including caller cancellation — yields the safe
// fallback result instead of an error, so qualification never aborts
// the caller's flow.
func (s *Scorer) Analyze(ctx context.Context, evidence string, customer CustomerContext) Result {
	if err := ctx.Err(); err != nil {
		log.Printf("WARNING: qualification evaluator skipped (%v), using fallback verdict", err)
		return fallbackResult()
	}

	verdict, err := s.eval.Evaluate(ctx, evidence, customer)
	if err != nil {
		log.Printf("WARNING: qualification evaluator failed (%v), using fallback verdict", err)
		return fallbackResult()
	}
	return aggregate(verdict)
}

// aggregate computes the deterministic part of the contract: overall
// score is the count of qualified criteria, the recommendation follows
// fixed cutoffs, and missing information lists unqualified criteria in
// priority order.
func aggregate(v Verdict) Result {
	r := Result{Verdict: v}
	for _, c := range pipeline.Criteria() {
		cr := v.result(c)
		if !pipeline.ValidConfidence(cr.Confidence) {
			cr.Confidence = pipeline.ConfidenceLow
		}
		setResult(&r.Verdict, c, cr)
		if cr.Qualified {
			r.OverallScore++
		} else {
			r.MissingInformation = append(r.MissingInformation, c)
		}
	}

	switch {
	case r.OverallScore == 4:
		r.Recommendation = RecommendQualify
	case r.OverallScore >= 1:
		r.Recommendation = RecommendNurture
	default:
		r.Recommendation = RecommendDisqualify
	}
	return r
}

func setResult(v *Verdict, c pipeline.Criterion, cr CriterionResult) {
	switch c {
	case pipeline.CriterionBudget:
		v.Budget = cr
	case pipeline.CriterionAuthority:
		v.Authority = cr
	case pipeline.CriterionNeed:
		v.Need = cr
	default:
		v.Timeline = cr
	}
}

// fallbackResult is the safe verdict used when the evaluator cannot be
// consulted: nothing qualified, low confidence throughout, and a
// nurture recommendation so the lead stays in play.
func fallbackResult() Result {
	unknown := func(notes string) CriterionResult {
		return CriterionResult{
			Evidence:   "Not enough information",
			Notes:      notes,
			Confidence: pipeline.ConfidenceLow,
		}
	}
	r := aggregate(Verdict{
		Budget:    unknown("Need to ask about budget"),
		Authority: unknown("Need to identify decision-maker"),
		Need:      unknown("Need to understand pain points"),
		Timeline:  unknown("Need to understand timeline"),
		NextSteps: []string{"Continue discovery", "Ask qualifying questions"},
	})
	r.Recommendation = RecommendNurture
	r.Fallback = true
	return r
}

// questions holds one qualifying question per criterion.
var questions = map[pipeline.Criterion]string{
	pipeline.CriterionBudget:    "To help me provide the right solution, what budget range have you allocated for this initiative?",
	pipeline.CriterionAuthority: "Who else besides yourself will be involved in evaluating and approving this decision?",
	pipeline.CriterionNeed:      "What specific challenges or pain points are you looking to address with this solution?",
	pipeline.CriterionTimeline:  "What's driving your timeline for implementing a solution?",
}

// readyMessage is returned when every criterion is already qualified.
const readyMessage = "Great! You're qualified. Let's move forward with a proposal."

// NextQuestion selects the question for the first unqualified criterion
// in the fixed priority order budget, authority, need, timeline. A fully
// qualified verdict gets the ready-to-advance message.
func NextQuestion(v Verdict) string {
	for _, c := range pipeline.Criteria() {
		if !v.result(c).Qualified {
			return questions[c]
		}
	}
	return readyMessage
}
