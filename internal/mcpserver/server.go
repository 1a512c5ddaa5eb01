// Package mcpserver exposes the displayComponent tool over the Model
// Context Protocol so external assistants can drive uideck the way the
// built-in chat agent does.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/itemview"
	"github.com/oakwood-commons/uideck/internal/listview"
)

// Version is reported to MCP clients.
var Version = "dev"

const instructions = "uideck renders data components for four mock domains " +
	"(products, users, employees, orders). Call displayComponent to show a list, " +
	"the details of one item or a creation form. Use list_domains to discover the " +
	"valid dataType and layout values."

// ServerOption configures optional Server behaviour.
type ServerOption func(*Server)

// WithSnapshotter attaches a renderer whose output is appended to
// successful displayComponent results.
func WithSnapshotter(fn dispatch.Snapshotter) ServerOption {
	return func(s *Server) {
		s.snapshot = fn
	}
}

// WithLogger sets the logger used for tool calls.
func WithLogger(l logr.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// Server wraps an MCP server instance with the uideck tools registered.
type Server struct {
	mcpServer *server.MCPServer
	disp      *dispatch.Dispatcher
	snapshot  dispatch.Snapshotter
	log       logr.Logger
}

// NewServer creates an MCP server dispatching through d.
func NewServer(d *dispatch.Dispatcher, opts ...ServerOption) *Server {
	s := &Server{disp: d, log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer(
		"uideck",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server instance.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the protocol on in/out until ctx is done. Transport
// errors are written to errOut.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(errOut, "uideck mcp: ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler serves the streamable HTTP transport at path.
func (s *Server) HTTPHandler(path string) http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer,
		server.WithEndpointPath(path),
		server.WithStateLess(true),
	)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(dispatch.ToolName,
			mcp.WithDescription("Display a UI component with data. Lists support the table, grid "+
				"and list layouts; items support card, panel and details. Items require itemId."),
			mcp.WithTitleAnnotation("Display component"),
			mcp.WithString("componentType",
				mcp.Required(),
				mcp.Description("Type of component to display"),
				mcp.Enum(dispatch.ComponentTypes...),
			),
			mcp.WithString("dataType",
				mcp.Required(),
				mcp.Description("Type of data to display"),
				mcp.Enum(domain.Names()...),
			),
			mcp.WithString("itemId",
				mcp.Description("ID of the item to display (required for the item component)"),
			),
			mcp.WithString("layout",
				mcp.Description("Layout of the component (list: table, grid, list; item: card, panel, details)"),
			),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(false),
		),
		s.handleDisplayComponent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_domains",
			mcp.WithDescription("List the data domains, component types and layouts displayComponent accepts."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListDomains,
	)
}

func (s *Server) handleDisplayComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := dispatch.ToolArgs{
		ComponentType: req.GetString("componentType", ""),
		DataType:      req.GetString("dataType", ""),
		ItemID:        req.GetString("itemId", ""),
		Layout:        req.GetString("layout", ""),
	}
	res, disp := s.disp.Dispatch(ctx, args)
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("internal error: %v", err)), nil
	}
	out := &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(string(data))},
		StructuredContent: res,
		IsError:           !res.Success,
	}
	if res.Success && s.snapshot != nil {
		out.Content = append(out.Content, mcp.NewTextContent(s.snapshot(disp)))
	}
	s.log.V(1).Info("mcp tool call", "tool", dispatch.ToolName, "success", res.Success)
	return out, nil
}

// DomainsInfo lists the values displayComponent accepts.
type DomainsInfo struct {
	Domains        []string `json:"domains"`
	ComponentTypes []string `json:"componentTypes"`
	ListLayouts    []string `json:"listLayouts"`
	ItemLayouts    []string `json:"itemLayouts"`
}

// Domains describes the accepted displayComponent values.
func Domains() DomainsInfo {
	res := DomainsInfo{
		Domains:        domain.Names(),
		ComponentTypes: append([]string(nil), dispatch.ComponentTypes...),
	}
	for _, l := range listview.Layouts {
		res.ListLayouts = append(res.ListLayouts, string(l))
	}
	for _, l := range itemview.Layouts {
		res.ItemLayouts = append(res.ItemLayouts, string(l))
	}
	return res
}

func (s *Server) handleListDomains(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(Domains())
}
