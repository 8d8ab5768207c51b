// Salesagent: AI sales pipeline MCP server.
//
// Exposes deal pipeline management, BANT lead qualification, and ICP
// lead scoring as MCP tools over stdio, for use from any MCP-capable
// client.
//
// Usage:
//
//	salesagent serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/config"
	agentserver "github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("salesagent v%s\n", agentserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, cleanup, err := agentserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `salesagent - AI sales pipeline MCP server

Usage:
  salesagent serve      Start the MCP server (stdio transport)
  salesagent version    Print the version
  salesagent help       Show this help

Environment:
  SALESAGENT_DATA_DIR              Data directory (default: ~/.salesagent)
  GROQ_API_KEY                     Enables LLM-backed qualification
  GROQ_BASE_URL                    Override the Groq API base URL
  GROQ_MODEL                       Model name (default: llama-3.3-70b-versatile)
  SALESAGENT_READINESS_THRESHOLD   BANT count for auto-advancement (default: 4)
`)
}
