package qualify

import (
	"context"
	"errors"
	"testing"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/llm"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
)

// stubEvaluator returns a canned verdict or error without any I/O.
type stubEvaluator struct {
	verdict Verdict
	err     error
}

func (s stubEvaluator) Evaluate(context.Context, string, CustomerContext) (Verdict, error) {
	return s.verdict, s.err
}

func qualified(conf pipeline.Confidence) CriterionResult {
	return CriterionResult{Qualified: true, Evidence: "stated directly", Confidence: conf}
}

func TestAnalyze_FullyQualified(t *testing.T) {
	s := NewScorer(stubEvaluator{verdict: Verdict{
		Budget:    qualified(pipeline.ConfidenceHigh),
		Authority: qualified(pipeline.ConfidenceMedium),
		Need:      qualified(pipeline.ConfidenceHigh),
		Timeline:  qualified(pipeline.ConfidenceHigh),
	}})

	r := s.Analyze(context.Background(), "evidence", CustomerContext{CompanyName: "Acme"})
	if r.Fallback {
		t.Fatal("successful evaluation should not be marked fallback")
	}
	if r.OverallScore != 4 {
		t.Errorf("overall score = %d, want 4", r.OverallScore)
	}
	if r.Recommendation != RecommendQualify {
		t.Errorf("recommendation = %q, want qualify", r.Recommendation)
	}
	if len(r.MissingInformation) != 0 {
		t.Errorf("missing = %v, want none", r.MissingInformation)
	}
}

func TestAnalyze_PartialIsNurture(t *testing.T) {
	s := NewScorer(stubEvaluator{verdict: Verdict{
		Budget: qualified(pipeline.ConfidenceHigh),
		Need:   qualified(pipeline.ConfidenceLow),
	}})

	r := s.Analyze(context.Background(), "evidence", CustomerContext{})
	if r.OverallScore != 2 {
		t.Errorf("overall score = %d, want 2", r.OverallScore)
	}
	if r.Recommendation != RecommendNurture {
		t.Errorf("recommendation = %q, want nurture", r.Recommendation)
	}
	want := []pipeline.Criterion{pipeline.CriterionAuthority, pipeline.CriterionTimeline}
	if len(r.MissingInformation) != 2 || r.MissingInformation[0] != want[0] || r.MissingInformation[1] != want[1] {
		t.Errorf("missing = %v, want %v", r.MissingInformation, want)
	}
}

func TestAnalyze_NothingQualifiedIsDisqualify(t *testing.T) {
	s := NewScorer(stubEvaluator{verdict: Verdict{}})

	r := s.Analyze(context.Background(), "evidence", CustomerContext{})
	if r.OverallScore != 0 || r.Recommendation != RecommendDisqualify {
		t.Errorf("score=%d recommendation=%q, want 0/disqualify", r.OverallScore, r.Recommendation)
	}
	if len(r.MissingInformation) != 4 {
		t.Errorf("missing = %v, want all four criteria", r.MissingInformation)
	}
}

func TestAnalyze_EvaluatorFailureFallsBack(t *testing.T) {
	s := NewScorer(stubEvaluator{err: errors.New("model unavailable")})

	r := s.Analyze(context.Background(), "evidence", CustomerContext{})
	if !r.Fallback {
		t.Fatal("evaluator failure should mark result as fallback")
	}
	if r.OverallScore != 0 {
		t.Errorf("fallback score = %d, want 0", r.OverallScore)
	}
	if r.Recommendation != RecommendNurture {
		t.Errorf("fallback recommendation = %q, want nurture", r.Recommendation)
	}
	for _, c := range pipeline.Criteria() {
		cr := r.Verdict.result(c)
		if cr.Qualified || cr.Confidence != pipeline.ConfidenceLow {
			t.Errorf("fallback %s = %+v, want unqualified/low", c, cr)
		}
		if cr.Evidence != "Not enough information" {
			t.Errorf("fallback %s evidence = %q", c, cr.Evidence)
		}
	}
	if len(r.MissingInformation) != 4 {
		t.Errorf("fallback missing = %v, want all four", r.MissingInformation)
	}
}

func TestAnalyze_CancelledContextFallsBack(t *testing.T) {
	// The stub would happily return a full verdict; cancellation must win.
	s := NewScorer(stubEvaluator{verdict: Verdict{
		Budget:    qualified(pipeline.ConfidenceHigh),
		Authority: qualified(pipeline.ConfidenceHigh),
		Need:      qualified(pipeline.ConfidenceHigh),
		Timeline:  qualified(pipeline.ConfidenceHigh),
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := s.Analyze(ctx, "evidence", CustomerContext{})
	if !r.Fallback {
		t.Fatal("cancelled context should yield the fallback verdict")
	}
}

func TestAnalyze_UnknownConfidenceNormalizes(t *testing.T) {
	s := NewScorer(stubEvaluator{verdict: Verdict{
		Budget: CriterionResult{Qualified: true, Confidence: "very high"},
	}})

	r := s.Analyze(context.Background(), "evidence", CustomerContext{})
	if r.Budget.Confidence != pipeline.ConfidenceLow {
		t.Errorf("confidence = %q, want normalized to low", r.Budget.Confidence)
	}
	if r.OverallScore != 1 {
		t.Errorf("overall score = %d, want 1", r.OverallScore)
	}
}

func TestNextQuestion_PriorityOrder(t *testing.T) {
	// Both budget and timeline unqualified: budget must win.
	v := Verdict{
		Authority: qualified(pipeline.ConfidenceHigh),
		Need:      qualified(pipeline.ConfidenceHigh),
	}
	if got := NextQuestion(v); got != questions[pipeline.CriterionBudget] {
		t.Errorf("question = %q, want the budget question", got)
	}

	v.Budget = qualified(pipeline.ConfidenceHigh)
	if got := NextQuestion(v); got != questions[pipeline.CriterionTimeline] {
		t.Errorf("question = %q, want the timeline question", got)
	}
}

func TestNextQuestion_AllQualified(t *testing.T) {
	v := Verdict{
		Budget:    qualified(pipeline.ConfidenceHigh),
		Authority: qualified(pipeline.ConfidenceHigh),
		Need:      qualified(pipeline.ConfidenceHigh),
		Timeline:  qualified(pipeline.ConfidenceHigh),
	}
	if got := NextQuestion(v); got != readyMessage {
		t.Errorf("question = %q, want ready message", got)
	}
}

// cannedChat is a ChatClient returning a fixed reply.
type cannedChat struct {
	reply string
	err   error
}

func (c cannedChat) Complete(context.Context, []llm.Message, float64) (string, error) {
	return c.reply, c.err
}

func TestLLMEvaluator_ParsesFencedJSON(t *testing.T) {
	reply := "```json\n{\"budget\": {\"qualified\": true, \"evidence\": \"$50K allocated\", \"confidence\": \"high\"}, \"need\": {\"qualified\": true, \"evidence\": \"tracking leads is failing\", \"confidence\": \"medium\"}}\n```"
	e := NewLLMEvaluator(cannedChat{reply: reply})

	v, err := e.Evaluate(context.Background(), "conversation", CustomerContext{CompanyName: "Acme Corp"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.Budget.Qualified || v.Budget.Confidence != pipeline.ConfidenceHigh {
		t.Errorf("budget = %+v", v.Budget)
	}
	if !v.Need.Qualified || v.Timeline.Qualified {
		t.Errorf("verdict = %+v", v)
	}
}

func TestLLMEvaluator_GarbageOutput(t *testing.T) {
	e := NewLLMEvaluator(cannedChat{reply: "I'm sorry, I can't produce JSON today."})
	if _, err := e.Evaluate(context.Background(), "conversation", CustomerContext{}); err == nil {
		t.Fatal("unparseable reply should be an error")
	}

	// And the scorer turns that error into the fallback verdict.
	r := NewScorer(e).Analyze(context.Background(), "conversation", CustomerContext{})
	if !r.Fallback || r.Recommendation != RecommendNurture {
		t.Errorf("result = %+v, want fallback/nurture", r)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"Here you go:\n```json\n{\"a\":1}\n```\nLet me know!", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := stripFences(c.in); got != c.want {
			t.Errorf("stripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
