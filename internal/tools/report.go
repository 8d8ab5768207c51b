package tools

import (
	"context"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/crm"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// PipelineSummaryTool handles the crm_pipeline_summary MCP tool.
type PipelineSummaryTool struct {
	crm *crm.CRM
}

// NewPipelineSummaryTool creates a PipelineSummaryTool.
func NewPipelineSummaryTool(c *crm.CRM) *PipelineSummaryTool {
	return &PipelineSummaryTool{crm: c}
}

// Definition returns the MCP tool definition for crm_pipeline_summary.
func (t *PipelineSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_pipeline_summary",
		mcp.WithDescription(
			"Aggregate pipeline report: deal count and total value per stage, "+
				"overall totals, and probability-weighted value across open deals.",
		),
	)
}

// Handle processes the crm_pipeline_summary tool call.
func (t *PipelineSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.crm.Pipeline().PipelineSummary())
}

// Customer360Tool handles the crm_customer_360 MCP tool.
type Customer360Tool struct {
	crm *crm.CRM
}

// NewCustomer360Tool creates a Customer360Tool.
func NewCustomer360Tool(c *crm.CRM) *Customer360Tool {
	return &Customer360Tool{crm: c}
}

// Definition returns the MCP tool definition for crm_customer_360.
func (t *Customer360Tool) Definition() mcp.Tool {
	return mcp.NewTool("crm_customer_360",
		mcp.WithDescription(
			"Complete view of one customer: profile, every deal with its "+
				"history, and recent interactions.",
		),
		mcp.WithString("customer_id",
			mcp.Required(),
			mcp.Description("The customer to look up"),
		),
	)
}

// Handle processes the crm_customer_360 tool call.
func (t *Customer360Tool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID := req.GetString("customer_id", "")
	if customerID == "" {
		return mcp.NewToolResultError("'customer_id' is required"), nil
	}

	view, err := t.crm.GetCustomer360(customerID)
	if err != nil {
		if domainError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(view)
}

// LogInteractionTool handles the crm_log_interaction MCP tool.
type LogInteractionTool struct {
	crm *crm.CRM
}

// NewLogInteractionTool creates a LogInteractionTool.
func NewLogInteractionTool(c *crm.CRM) *LogInteractionTool {
	return &LogInteractionTool{crm: c}
}

// Definition returns the MCP tool definition for crm_log_interaction.
func (t *LogInteractionTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_log_interaction",
		mcp.WithDescription(
			"Record an interaction (email, call, meeting, demo, note) on a "+
				"customer's account. The log is append-only.",
		),
		mcp.WithString("customer_id",
			mcp.Required(),
			mcp.Description("The customer the interaction belongs to"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("The interaction type"),
			mcp.Enum(memory.InteractionEmail, memory.InteractionCall, memory.InteractionMeeting, memory.InteractionDemo, memory.InteractionNote),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("One-line summary of what happened"),
		),
		mcp.WithString("deal_id",
			mcp.Description("The deal this interaction relates to, if any"),
		),
		mcp.WithString("details",
			mcp.Description("Longer notes about the interaction"),
		),
		mcp.WithString("sentiment",
			mcp.Description("How it went (default: neutral)"),
			mcp.Enum(memory.SentimentPositive, memory.SentimentNeutral, memory.SentimentNegative),
		),
	)
}

// Handle processes the crm_log_interaction tool call.
func (t *LogInteractionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID := req.GetString("customer_id", "")
	if customerID == "" {
		return mcp.NewToolResultError("'customer_id' is required"), nil
	}

	in, err := t.crm.Store().LogInteraction(memory.LogInteractionParams{
		CustomerID: customerID,
		DealID:     req.GetString("deal_id", ""),
		Type:       req.GetString("type", ""),
		Summary:    req.GetString("summary", ""),
		Details:    req.GetString("details", ""),
		Sentiment:  req.GetString("sentiment", ""),
	})
	if err != nil {
		// Every failure here is bad input or an unknown customer.
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(in)
}
