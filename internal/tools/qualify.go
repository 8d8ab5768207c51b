package tools

import (
	"context"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/crm"
	"github.com/mark3labs/mcp-go/mcp"
)

// QualifyLeadTool handles the crm_qualify_lead MCP tool.
// It scores the customer's recent conversation against the BANT
// criteria, records the verdict on the deal, and advances the deal out
// of qualification when every criterion is met.
type QualifyLeadTool struct {
	crm *crm.CRM
}

// NewQualifyLeadTool creates a QualifyLeadTool.
func NewQualifyLeadTool(c *crm.CRM) *QualifyLeadTool {
	return &QualifyLeadTool{crm: c}
}

// Definition returns the MCP tool definition for crm_qualify_lead.
func (t *QualifyLeadTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_qualify_lead",
		mcp.WithDescription(
			"Run BANT qualification (budget, authority, need, timeline) on a "+
				"customer's recent conversation. Updates the deal's qualification "+
				"flags and advances it from qualification to discovery once all "+
				"four criteria are met. If the language evaluator is unavailable "+
				"a safe fallback verdict is returned instead of an error.",
		),
		mcp.WithString("customer_id",
			mcp.Required(),
			mcp.Description("The customer whose conversation to analyze"),
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal to record the verdict on"),
		),
	)
}

// Handle processes the crm_qualify_lead tool call.
func (t *QualifyLeadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID := req.GetString("customer_id", "")
	dealID := req.GetString("deal_id", "")
	if customerID == "" || dealID == "" {
		return mcp.NewToolResultError("'customer_id' and 'deal_id' are required"), nil
	}

	out, err := t.crm.QualifyFromConversation(ctx, customerID, dealID)
	if err != nil {
		if domainError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(out)
}

// NextQuestionTool handles the crm_next_question MCP tool.
type NextQuestionTool struct {
	crm *crm.CRM
}

// NewNextQuestionTool creates a NextQuestionTool.
func NewNextQuestionTool(c *crm.CRM) *NextQuestionTool {
	return &NextQuestionTool{crm: c}
}

// Definition returns the MCP tool definition for crm_next_question.
func (t *NextQuestionTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_next_question",
		mcp.WithDescription(
			"Get the next qualifying question for a deal. Targets the first "+
				"unqualified BANT criterion in priority order: budget, authority, "+
				"need, timeline. Fully qualified deals get a ready-to-advance message.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal whose qualification to continue"),
		),
	)
}

// Handle processes the crm_next_question tool call.
func (t *NextQuestionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}

	q, err := t.crm.NextQuestion(dealID)
	if err != nil {
		if domainError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(q), nil
}
