// Package tools provides the MCP tool handlers for the sales agent.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (the CRM facade) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Domain rule violations (unknown stage, invalid transition, missing
// deal) come back as tool errors the caller can act on; infrastructure
// failures propagate as Go errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/memory"
	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// floatArg extracts a float argument from a tool request.
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// domainError reports whether err is a rule violation the caller should
// see as a tool error rather than a server failure.
func domainError(err error) bool {
	for _, sentinel := range []error{
		pipeline.ErrNotFound,
		pipeline.ErrUnknownStage,
		pipeline.ErrInvalidTransition,
		pipeline.ErrAlreadyClosed,
		pipeline.ErrInvalidValue,
		pipeline.ErrUnknownCriterion,
		pipeline.ErrDuplicateActiveDeal,
		memory.ErrCustomerNotFound,
		memory.ErrConversationNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// dealResult maps an operation outcome to a tool result, turning domain
// rule violations into tool errors.
func dealResult(deal *pipeline.Deal, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		if domainError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(deal)
}
