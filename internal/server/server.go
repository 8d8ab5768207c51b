// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools that depend on abstractions.
// No business logic lives here — only wiring.
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/config"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/crm"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/llm"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/memory"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/qualify"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// unavailableEvaluator stands in when no LLM is configured; the scorer
// turns its error into the fallback verdict.
type unavailableEvaluator struct{}

func (unavailableEvaluator) Evaluate(_ context.Context, _ string, _ qualify.CustomerContext) (qualify.Verdict, error) {
	return qualify.Verdict{}, fmt.Errorf("no language evaluator configured (set GROQ_API_KEY)")
}

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function flushes the deal registry and closes
// the memory store's database connection; it must be called on shutdown
// (typically via defer). It is always non-nil and safe to call.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	registry, err := pipeline.OpenRegistry(cfg.DataDir)
	if err != nil {
		return nil, noop, fmt.Errorf("opening deal registry: %w", err)
	}

	policy := pipeline.DefaultPolicy()
	policy.ReadinessThreshold = cfg.ReadinessThreshold
	manager, err := pipeline.NewManager(registry, policy)
	if err != nil {
		return nil, noop, fmt.Errorf("configuring pipeline: %w", err)
	}

	store, err := memory.New(memory.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, fmt.Errorf("opening customer memory: %w", err)
	}
	cleanup := func() {
		if err := registry.Flush(); err != nil {
			log.Printf("WARNING: flushing deal registry: %v", err)
		}
		if err := store.Close(); err != nil {
			log.Printf("WARNING: closing customer memory: %v", err)
		}
	}

	// Qualification degrades gracefully without an API key: the scorer
	// falls back to the safe verdict instead of failing tool calls.
	var evaluator qualify.Evaluator = unavailableEvaluator{}
	if cfg.GroqAPIKey != "" {
		chat, err := llm.NewClient(llm.Config{
			BaseURL: cfg.GroqBaseURL,
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.GroqModel,
		})
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("configuring llm client: %w", err)
		}
		evaluator = qualify.NewLLMEvaluator(chat)
	} else {
		log.Printf("WARNING: GROQ_API_KEY not set, qualification uses fallback verdicts")
	}

	facade := crm.New(manager, store, qualify.NewScorer(evaluator))

	s := server.NewMCPServer(
		"salesagent",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	createTool := tools.NewCreateDealTool(facade)
	s.AddTool(createTool.Definition(), createTool.Handle)

	getTool := tools.NewGetDealTool(facade)
	s.AddTool(getTool.Definition(), getTool.Handle)

	advanceTool := tools.NewAdvanceDealTool(facade)
	s.AddTool(advanceTool.Definition(), advanceTool.Handle)

	moveTool := tools.NewMoveDealTool(facade)
	s.AddTool(moveTool.Definition(), moveTool.Handle)

	closeTool := tools.NewCloseDealTool(facade)
	s.AddTool(closeTool.Definition(), closeTool.Handle)

	valueTool := tools.NewUpdateDealValueTool(facade)
	s.AddTool(valueTool.Definition(), valueTool.Handle)

	qualifyTool := tools.NewQualifyLeadTool(facade)
	s.AddTool(qualifyTool.Definition(), qualifyTool.Handle)

	questionTool := tools.NewNextQuestionTool(facade)
	s.AddTool(questionTool.Definition(), questionTool.Handle)

	summaryTool := tools.NewPipelineSummaryTool(facade)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)

	customerTool := tools.NewCustomer360Tool(facade)
	s.AddTool(customerTool.Definition(), customerTool.Handle)

	interactionTool := tools.NewLogInteractionTool(facade)
	s.AddTool(interactionTool.Definition(), interactionTool.Handle)

	icpTool := tools.NewICPScoreTool()
	s.AddTool(icpTool.Definition(), icpTool.Handle)

	return s, cleanup, nil
}

// noop is the cleanup returned alongside errors.
func noop() {}

func serverInstructions() string {
	return `Sales pipeline agent. Deals move forward through
lead → qualification → discovery → proposal → negotiation and close as
won or lost; probability is derived from the stage. Use crm_create_deal
to onboard an account, crm_qualify_lead to run BANT analysis on its
conversation, crm_next_question to keep qualification moving, and
crm_pipeline_summary for the aggregate report. icp_score_leads ranks
prospect lists against an ideal customer profile.`
}
