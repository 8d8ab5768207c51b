package qualify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/llm"
)

const bantPromptTemplate = `You are a sales qualification expert analyzing a conversation to determine BANT qualification.

BANT FRAMEWORK:
- Budget: Does the prospect have budget allocated or accessible?
- Authority: Are we speaking with a decision-maker or key influencer?
- Need: Is there a clear, urgent business need?
- Timeline: Is there a defined timeline for making a decision?

CUSTOMER INFORMATION:
%s

CONVERSATION CONTEXT:
%s

YOUR TASK:
Analyze the conversation and determine qualification status for each BANT criteria.

RESPOND WITH ONLY VALID JSON:
{
  "budget": {"qualified": true/false, "evidence": "quote or summary from conversation", "notes": "additional context", "confidence": "high/medium/low"},
  "authority": {"qualified": true/false, "evidence": "quote or summary", "notes": "additional context", "confidence": "high/medium/low"},
  "need": {"qualified": true/false, "evidence": "quote or summary", "notes": "additional context", "confidence": "high/medium/low"},
  "timeline": {"qualified": true/false, "evidence": "quote or summary", "notes": "additional context", "confidence": "high/medium/low"},
  "next_steps": ["suggested action 1", "suggested action 2"]
}`

// llmEvaluator implements Evaluator on top of a chat-completion client.
type llmEvaluator struct {
	chat llm.ChatClient
}

// NewLLMEvaluator builds an Evaluator that prompts a language model and
// parses its JSON verdict.
func NewLLMEvaluator(chat llm.ChatClient) Evaluator {
	return &llmEvaluator{chat: chat}
}

func (e *llmEvaluator) Evaluate(ctx context.Context, evidence string, customer CustomerContext) (Verdict, error) {
	info, err := json.MarshalIndent(customer, "", "  ")
	if err != nil {
		return Verdict{}, fmt.Errorf("qualify: marshal customer context: %w", err)
	}

	prompt := fmt.Sprintf(bantPromptTemplate, info, evidence)
	reply, err := e.chat.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, 0.3)
	if err != nil {
		return Verdict{}, fmt.Errorf("qualify: evaluate: %w", err)
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(stripFences(reply)), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("qualify: parse verdict: %w", err)
	}
	return verdict, nil
}

// stripFences removes a markdown code fence around the model's reply.
// Models frequently wrap JSON this way despite being told not to.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}
