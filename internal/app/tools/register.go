package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Register declares every operation as an MCP tool on the server, with the
// rendered argument schema and a handler bound to the dispatcher.
func Register(s *server.MCPServer, d *Dispatcher) {
	for _, op := range d.ListOperations() {
		schema, err := json.Marshal(op.InputSchema())
		if err != nil {
			// Schemas are built from plain maps of strings; this cannot
			// happen for a well-formed descriptor.
			continue
		}
		name := op.Name
		tool := mcp.NewToolWithRawSchema(name, op.Description, schema)
		s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Invoke(ctx, name, req.GetArguments()), nil
		})
	}
}
