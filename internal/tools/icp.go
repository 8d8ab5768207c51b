package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/icp"
	"github.com/mark3labs/mcp-go/mcp"
)

// ICPScoreTool handles the icp_score_leads MCP tool.
// It ranks prospect records against an ideal customer profile using the
// fixed rule-based scoring formula.
type ICPScoreTool struct{}

// NewICPScoreTool creates an ICPScoreTool. Scoring is pure computation,
// so the tool has no dependencies.
func NewICPScoreTool() *ICPScoreTool {
	return &ICPScoreTool{}
}

// scoredLead is one ranked candidate with its display tier.
type scoredLead struct {
	icp.Candidate
	Tier string `json:"tier"`
}

// Definition returns the MCP tool definition for icp_score_leads.
func (t *ICPScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("icp_score_leads",
		mcp.WithDescription(
			"Score and rank prospect companies against an ideal customer "+
				"profile. Total = 40% company fit + 30% persona fit + 20% intent "+
				"signals + 10% data quality. Duplicate company names are dropped "+
				"(first wins) and results come back highest score first with "+
				"Hot/Warm/Cold tiers. Also returns suggested search queries for "+
				"sourcing more leads.",
		),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("The ideal customer profile as a JSON object: "+
				`{"industry", "company_size", "revenue_range", "geography", `+
				`"growth_stage", "tech_stack": [], "job_titles": [], "intent_signals": []}`),
		),
		mcp.WithString("leads",
			mcp.Required(),
			mcp.Description("JSON array of prospect records: "+
				`[{"company_name", "website", "industry", "employee_count", `+
				`"revenue_estimate", "location", "tech_stack": [], "recent_activity": [], `+
				`"decision_makers": [{"name", "title", "email"}]}]`),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum candidates to return (default: 20)"),
		),
	)
}

// Handle processes the icp_score_leads tool call.
func (t *ICPScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var profile icp.Profile
	if err := json.Unmarshal([]byte(req.GetString("profile", "")), &profile); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'profile' must be a JSON object: %v", err)), nil
	}

	var leads []icp.Lead
	if err := json.Unmarshal([]byte(req.GetString("leads", "")), &leads); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'leads' must be a JSON array: %v", err)), nil
	}
	if len(leads) == 0 {
		return mcp.NewToolResultError("'leads' must contain at least one prospect"), nil
	}

	ranked := icp.Rank(profile, leads, intArg(req, "max_results", 20))
	out := make([]scoredLead, len(ranked))
	for i, c := range ranked {
		out[i] = scoredLead{Candidate: c, Tier: c.Tier()}
	}

	return jsonResult(map[string]any{
		"candidates":     out,
		"search_queries": icp.SearchQueries(profile),
	})
}
