package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/config"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/descriptions"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/inspect"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/security"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/session"
)

const (
	scanDepth = 3
	scanLimit = 200
	scanTTL   = 30 * time.Second
)

// ErrServerMode is returned by Run when the config selects HTTP server mode;
// that transport is served through Handler
var ErrServerMode = errors.New("server mode is served over HTTP, mount Handler instead")

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	session   *session.Session
	paths     *security.PathValidator
	validator *pdf.Validator
	inspector *inspect.Inspector
	scanner   *pdf.DirectoryScanner
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, sess *session.Session, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("invalid working directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // tools are fixed at startup
	)

	s := &Server{
		config:    cfg,
		session:   sess,
		paths:     paths,
		validator: pdf.NewValidator(cfg.MaxFileSize),
		inspector: inspect.New(logger),
		scanner:   pdf.NewDirectoryScanner(scanDepth, scanLimit, scanTTL),
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

func fieldTypeNames() []string {
	types := form.AllFieldTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func description(name string) mcp.ToolOption {
	return mcp.WithDescription(descriptions.GetToolDescription(name))
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("form_add_field",
		description("form_add_field"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Field type"),
			mcp.Enum(fieldTypeNames()...),
		),
		mcp.WithNumber("screen_x", mcp.Description("Canvas x of an explicit drop point, in screen pixels")),
		mcp.WithNumber("screen_y", mcp.Description("Canvas y of an explicit drop point, in screen pixels")),
	), s.handleAddField)

	s.mcpServer.AddTool(mcp.NewTool("form_update_field",
		description("form_update_field"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("type", mcp.Description("New field type"), mcp.Enum(fieldTypeNames()...)),
		mcp.WithString("label", mcp.Description("Label text")),
		mcp.WithString("options_text", mcp.Description("Options, one per line; blank lines are dropped")),
		mcp.WithNumber("x", mcp.Description("xPosition in points")),
		mcp.WithNumber("y", mcp.Description("yPosition in points, measured from the page top")),
		mcp.WithNumber("width", mcp.Description("Widget width in points")),
		mcp.WithNumber("height", mcp.Description("Widget height in points")),
		mcp.WithString("font", mcp.Description("Label font")),
		mcp.WithNumber("font_size", mcp.Description("Label font size")),
		mcp.WithNumber("line_height", mcp.Description("Line height multiple")),
		mcp.WithNumber("lines", mcp.Description("Line count of textarea and richText fields")),
		mcp.WithString("input_font", mcp.Description("Font of the widget value")),
		mcp.WithNumber("input_font_size", mcp.Description("Font size of the widget value")),
		mcp.WithString("image_data", mcp.Description("Base64 or data URL image for image fields")),
		mcp.WithString("signature_data", mcp.Description("Base64 or data URL image for signature fields")),
		mcp.WithString("file_data", mcp.Description("Text shown by fileOutput fields")),
		mcp.WithString("rich_text_data", mcp.Description("HTML content of richText fields")),
	), s.handleUpdateField)

	s.mcpServer.AddTool(mcp.NewTool("form_delete_field",
		description("form_delete_field"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
	), s.handleDeleteField)

	s.mcpServer.AddTool(mcp.NewTool("form_move_field",
		description("form_move_field"),
		mcp.WithNumber("from", mcp.Required(), mcp.Description("Current index")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("Destination index")),
	), s.handleMoveField)

	s.mcpServer.AddTool(mcp.NewTool("form_list_fields", description("form_list_fields")), s.handleListFields)
	s.mcpServer.AddTool(mcp.NewTool("form_reset", description("form_reset")), s.handleReset)

	s.mcpServer.AddTool(mcp.NewTool("form_set_text_config",
		description("form_set_text_config"),
		mcp.WithString("font", mcp.Description("Default font")),
		mcp.WithNumber("font_size", mcp.Description("Default font size")),
		mcp.WithNumber("line_height", mcp.Description("Default line height multiple")),
		mcp.WithNumber("label_spacing", mcp.Description("Horizontal offset from label to widget")),
		mcp.WithNumber("vertical_spacing", mcp.Description("Vertical offset from label to widget")),
	), s.handleSetTextConfig)

	s.mcpServer.AddTool(mcp.NewTool("form_set_layout_mode",
		description("form_set_layout_mode"),
		mcp.WithString("mode", mcp.Required(), mcp.Enum(config.LayoutStacked, config.LayoutFreeform)),
	), s.handleSetLayoutMode)

	s.mcpServer.AddTool(mcp.NewTool("form_zoom",
		description("form_zoom"),
		mcp.WithString("action", mcp.Required(), mcp.Enum("in", "out", "set")),
		mcp.WithNumber("value", mcp.Description("Zoom factor for action=set")),
	), s.handleZoom)

	s.mcpServer.AddTool(mcp.NewTool("form_drag_start",
		description("form_drag_start"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
	), s.handleDragStart)

	s.mcpServer.AddTool(mcp.NewTool("form_drop",
		description("form_drop"),
		mcp.WithNumber("client_x", mcp.Required(), mcp.Description("Viewport x of the drop")),
		mcp.WithNumber("client_y", mcp.Required(), mcp.Description("Viewport y of the drop")),
		mcp.WithNumber("container_left", mcp.Description("Viewport x of the canvas container")),
		mcp.WithNumber("container_top", mcp.Description("Viewport y of the canvas container")),
		mcp.WithNumber("container_width", mcp.Description("Container width; 0 means unbounded")),
		mcp.WithNumber("container_height", mcp.Description("Container height; 0 means unbounded")),
	), s.handleDrop)

	s.mcpServer.AddTool(mcp.NewTool("form_drag_end", description("form_drag_end")), s.handleDragEnd)

	s.mcpServer.AddTool(mcp.NewTool("form_load_base",
		description("form_load_base"),
		mcp.WithString("path", mcp.Description("PDF in the working directory")),
		mcp.WithBoolean("clear", mcp.Description("Drop the base document and use a blank page")),
	), s.handleLoadBase)

	s.mcpServer.AddTool(mcp.NewTool("form_export_pdf",
		description("form_export_pdf"),
		mcp.WithString("output", mcp.Description("Output file name in the working directory (default form.pdf)")),
	), s.handleExportPDF)

	s.mcpServer.AddTool(mcp.NewTool("form_render_overlay",
		description("form_render_overlay"),
		mcp.WithString("output", mcp.Description("Optional SVG file name in the working directory")),
	), s.handleRenderOverlay)

	s.mcpServer.AddTool(mcp.NewTool("form_inspect_pdf",
		description("form_inspect_pdf"),
		mcp.WithString("path", mcp.Required(), mcp.Description("PDF in the working directory")),
	), s.handleInspectPDF)

	s.mcpServer.AddTool(mcp.NewTool("form_server_info", description("form_server_info")), s.handleServerInfo)
}

// Run serves MCP over stdio
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return ErrServerMode
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", zap.String("directory", s.config.Directory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// Handler serves MCP over server-sent events for server mode
func (s *Server) Handler(baseURL string) http.Handler {
	return server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
}
