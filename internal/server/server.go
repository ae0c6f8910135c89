// Package server exposes the tool registry over the Model Context Protocol.
// The transport is a thin shell: decode arguments, dispatch, encode the
// resolution envelope.
package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"condameta/internal/buildinfo"
	"condameta/internal/registry"
)

type Server struct {
	registry *registry.Registry
	logger   *zap.Logger
}

func New(reg *registry.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: reg,
		logger:   logger.Named("server"),
	}
}

// Run serves the registry over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    buildinfo.ServiceName,
		Version: buildinfo.Version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})

	for _, desc := range s.registry.List() {
		tool := &mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema,
		}
		srv.AddTool(tool, s.toolHandler(desc.Name))
	}

	s.logger.Info("server starting (stdio transport)", zap.Int("tools", len(s.registry.List())))
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult("invalid arguments: " + err.Error()), nil
			}
		}

		res, err := s.registry.Dispatch(ctx, name, args)
		if err != nil {
			// Programming-contract violations and invalid input surface as
			// tool errors; everything else was already classified into the
			// resolution envelope by the tool layer.
			return errorResult(err.Error()), nil
		}

		encoded, err := json.Marshal(res)
		if err != nil {
			s.logger.Error("encode resolution failed", zap.String("tool", name), zap.Error(err))
			return errorResult("internal: result not encodable"), nil
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
			StructuredContent: res,
		}, nil
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
