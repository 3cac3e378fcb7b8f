// Package mcp exposes the injury assessment operations as MCP tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/bamic-rtp-server/internal/domain"
)

// Tool names
const (
	ToolEvaluate     = "evaluate_muscle_injury"
	ToolClassify     = "classify_injury_grade"
	ToolReturnToPlay = "estimate_return_to_play"
)

// Server represents the BAMIC return-to-play MCP server
type Server struct {
	info      ServerInfo
	assessor  domain.InjuryAssessor
	mcpServer *mcp.Server
	transport string
	strict    bool
	logger    *logrus.Logger
}

// ServerInfo contains MCP server metadata
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTransport selects the transport type. Only stdio is supported.
func WithTransport(transport string) ServerOption {
	return func(s *Server) {
		s.transport = transport
	}
}

// WithStrictValidation controls whether grade previews reject invalid intakes.
// Assessments follow the assessor's own setting.
func WithStrictValidation(strict bool) ServerOption {
	return func(s *Server) {
		s.strict = strict
	}
}

// NewServer creates a new MCP server instance with all tools registered
func NewServer(info ServerInfo, assessor domain.InjuryAssessor, opts ...ServerOption) *Server {
	server := &Server{
		info:      info,
		assessor:  assessor,
		transport: "stdio",
		strict:    true,
		logger:    logrus.New(),
	}
	for _, opt := range opts {
		opt(server)
	}

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    info.Name,
		Version: info.Version,
	}, nil)

	server.registerTools()
	return server
}

// Start runs the MCP server until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"name":      s.info.Name,
		"version":   s.info.Version,
		"transport": s.transport,
	}).Info("Starting MCP server")

	if s.transport != "stdio" {
		s.logger.WithField("transport", s.transport).Warn("Unsupported transport, falling back to stdio")
	}

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerTools registers the assessment tools with the MCP SDK
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolEvaluate,
		Description: "Score a muscle injury intake, classify its BAMIC-style grade and estimate the return-to-play window",
	}, s.handleEvaluate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolClassify,
		Description: "Classify the BAMIC-style structural grade of a muscle injury intake",
	}, s.handleClassify)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolReturnToPlay,
		Description: "Map a 0-100 severity score onto an estimated return-to-play window in days",
	}, s.handleReturnToPlay)

	s.logger.WithField("tool_count", 3).Debug("Registered MCP tools")
}
