package analysis

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPVersion is the MCP server version.
const MCPVersion = "0.1.0"

// AnalyzeInput is the inkscore_analyze tool input.
type AnalyzeInput struct {
	// Path to a manuscript file on the server's filesystem.
	Path string `json:"path"`
}

// AnalyzeOutput wraps the full report.
type AnalyzeOutput struct {
	Report *Report `json:"report"`
}

// NewMCPServer builds an MCP server exposing the analysis pipeline as
// tools.
func (s *Service) NewMCPServer() *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "inkscore",
		Version: MCPVersion,
	}
	server := mcp.NewServer(impl, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inkscore_analyze",
		Description: "Analyze a manuscript file: radar scores across editorial, genre-fit, and market modes, evidence snippets, and language statistics",
	}, s.handleAnalyzeTool)
	return server
}

// ServeMCP runs the MCP server over stdio until ctx is cancelled.
func (s *Service) ServeMCP(ctx context.Context) error {
	return s.NewMCPServer().Run(ctx, &mcp.StdioTransport{})
}

func (s *Service) handleAnalyzeTool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	report, err := s.Analyze(ctx, Upload{
		FileName: filepath.Base(input.Path),
		Data:     data,
	})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{Report: report}, nil
}
