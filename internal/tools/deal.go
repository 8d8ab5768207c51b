package tools

import (
	"context"
	"strings"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/crm"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateDealTool handles the crm_create_deal MCP tool.
// It onboards a new customer together with their first deal.
type CreateDealTool struct {
	crm *crm.CRM
}

// NewCreateDealTool creates a CreateDealTool with the given facade.
func NewCreateDealTool(c *crm.CRM) *CreateDealTool {
	return &CreateDealTool{crm: c}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateDealTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_create_deal",
		mcp.WithDescription(
			"Create a new customer and their first deal in one step. "+
				"The deal starts at the lead stage with 10% probability. "+
				"Contact details and an initial deal value are optional.",
		),
		mcp.WithString("company_name",
			mcp.Required(),
			mcp.Description("The prospect's company name"),
		),
		mcp.WithString("contact_name",
			mcp.Description("Primary contact's full name"),
		),
		mcp.WithString("contact_email",
			mcp.Description("Primary contact's email address"),
		),
		mcp.WithNumber("initial_value",
			mcp.Description("Estimated deal value in dollars (must be non-negative)"),
		),
	)
}

// Handle processes the crm_create_deal tool call.
func (t *CreateDealTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyName := req.GetString("company_name", "")
	if strings.TrimSpace(companyName) == "" {
		return mcp.NewToolResultError("'company_name' is required"), nil
	}
	initialValue := floatArg(req, "initial_value", 0)
	if initialValue < 0 {
		return mcp.NewToolResultError("'initial_value' must not be negative"), nil
	}

	res, err := t.crm.CreateCustomerWithDeal(crm.CreateCustomerWithDealParams{
		CompanyName:  companyName,
		ContactName:  req.GetString("contact_name", ""),
		ContactEmail: req.GetString("contact_email", ""),
		InitialValue: initialValue,
	})
	if err != nil {
		if domainError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(res)
}

// GetDealTool handles the crm_get_deal MCP tool.
type GetDealTool struct {
	crm *crm.CRM
}

// NewGetDealTool creates a GetDealTool.
func NewGetDealTool(c *crm.CRM) *GetDealTool {
	return &GetDealTool{crm: c}
}

// Definition returns the MCP tool definition for crm_get_deal.
func (t *GetDealTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_get_deal",
		mcp.WithDescription(
			"Look up a single deal by id, including its stage, probability, "+
				"BANT qualification flags, and full transition history.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal id, e.g. DEAL-20260815093000-a1b2c3d4"),
		),
	)
}

// Handle processes the crm_get_deal tool call.
func (t *GetDealTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}
	return dealResult(t.crm.Pipeline().GetDeal(dealID))
}

// AdvanceDealTool handles the crm_advance_deal MCP tool.
type AdvanceDealTool struct {
	crm *crm.CRM
}

// NewAdvanceDealTool creates an AdvanceDealTool.
func NewAdvanceDealTool(c *crm.CRM) *AdvanceDealTool {
	return &AdvanceDealTool{crm: c}
}

// Definition returns the MCP tool definition for crm_advance_deal.
func (t *AdvanceDealTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_advance_deal",
		mcp.WithDescription(
			"Advance a deal to the next pipeline stage "+
				"(lead → qualification → discovery → proposal → negotiation → closed_won) "+
				"and log the milestone on the account.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal to advance"),
		),
		mcp.WithString("note",
			mcp.Description("Why the deal is moving, recorded in the history"),
		),
	)
}

// Handle processes the crm_advance_deal tool call.
func (t *AdvanceDealTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}
	return dealResult(t.crm.AdvanceDeal(dealID, req.GetString("note", "")))
}

// MoveDealTool handles the crm_move_deal MCP tool.
type MoveDealTool struct {
	crm *crm.CRM
}

// NewMoveDealTool creates a MoveDealTool.
func NewMoveDealTool(c *crm.CRM) *MoveDealTool {
	return &MoveDealTool{crm: c}
}

// Definition returns the MCP tool definition for crm_move_deal.
func (t *MoveDealTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_move_deal",
		mcp.WithDescription(
			"Move a deal to a specific stage. Stages only move forward one step "+
				"at a time, except that any open deal may jump straight to "+
				"closed_won or closed_lost. Requesting the current stage "+
				"re-annotates the deal without changing it.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal to move"),
		),
		mcp.WithString("target_stage",
			mcp.Required(),
			mcp.Description("The stage to move to"),
			mcp.Enum("lead", "qualification", "discovery", "proposal", "negotiation", "closed_won", "closed_lost"),
		),
		mcp.WithString("note",
			mcp.Description("Why the deal is moving, recorded in the history"),
		),
	)
}

// Handle processes the crm_move_deal tool call.
func (t *MoveDealTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}
	target, err := pipeline.ParseStage(req.GetString("target_stage", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return dealResult(t.crm.Pipeline().MoveDeal(dealID, target, req.GetString("note", "")))
}

// CloseDealTool handles the crm_close_deal MCP tool.
type CloseDealTool struct {
	crm *crm.CRM
}

// NewCloseDealTool creates a CloseDealTool.
func NewCloseDealTool(c *crm.CRM) *CloseDealTool {
	return &CloseDealTool{crm: c}
}

// Definition returns the MCP tool definition for crm_close_deal.
func (t *CloseDealTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_close_deal",
		mcp.WithDescription(
			"Close a deal as won or lost and log the outcome on the account. "+
				"Closed deals cannot be reopened.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal to close"),
		),
		mcp.WithBoolean("won",
			mcp.Required(),
			mcp.Description("true closes the deal as won, false as lost"),
		),
		mcp.WithString("reason",
			mcp.Description("The win/loss reason, recorded in the history"),
		),
	)
}

// Handle processes the crm_close_deal tool call.
func (t *CloseDealTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}
	won := boolArg(req, "won", false)
	return dealResult(t.crm.CloseDeal(dealID, won, req.GetString("reason", "")))
}

// UpdateDealValueTool handles the crm_update_deal_value MCP tool.
type UpdateDealValueTool struct {
	crm *crm.CRM
}

// NewUpdateDealValueTool creates an UpdateDealValueTool.
func NewUpdateDealValueTool(c *crm.CRM) *UpdateDealValueTool {
	return &UpdateDealValueTool{crm: c}
}

// Definition returns the MCP tool definition for crm_update_deal_value.
func (t *UpdateDealValueTool) Definition() mcp.Tool {
	return mcp.NewTool("crm_update_deal_value",
		mcp.WithDescription(
			"Set a deal's monetary value. Does not affect its stage or probability.",
		),
		mcp.WithString("deal_id",
			mcp.Required(),
			mcp.Description("The deal to update"),
		),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("The deal value in dollars (must be non-negative)"),
		),
	)
}

// Handle processes the crm_update_deal_value tool call.
func (t *UpdateDealValueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dealID := req.GetString("deal_id", "")
	if dealID == "" {
		return mcp.NewToolResultError("'deal_id' is required"), nil
	}
	if _, ok := req.GetArguments()["value"].(float64); !ok {
		return mcp.NewToolResultError("'value' is required and must be a number"), nil
	}
	return dealResult(t.crm.Pipeline().UpdateDealValue(dealID, floatArg(req, "value", 0)))
}
