package queryengine

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/query-engine-go/internal/mcp"
)

// ToolServerName is the MCP implementation name advertised by the tool server.
const ToolServerName = "query-engine"

// ToolServer serves get_dmmf, get_config and dmmf_to_dml as MCP tools.
type ToolServer = internalmcp.ToolServer

// NewToolServer creates a tool server whose tools run on an Engine built
// from opts.
//
// Example:
//
//	srv, err := queryengine.NewToolServer("v1.0.0",
//	    queryengine.WithInstallDir("/opt/prisma"),
//	)
//	if err != nil {
//	    return err
//	}
//	return srv.Serve(ctx, &mcp.StdioTransport{})
func NewToolServer(version string, opts ...Option) (*ToolServer, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	server := internalmcp.NewToolServer(ToolServerName, version)
	if err := internalmcp.RegisterEngineTools(server, e); err != nil {
		return nil, err
	}

	return server, nil
}

// ServeStdio runs a tool server on stdin and stdout until ctx is done or
// the client disconnects.
func ServeStdio(ctx context.Context, version string, opts ...Option) error {
	server, err := NewToolServer(version, opts...)
	if err != nil {
		return err
	}

	return server.Serve(ctx, &mcp.StdioTransport{})
}
