package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/config"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/descriptions"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/interaction"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/reorder"
)

const (
	defaultExportName  = "form.pdf"
	outputFilePerm     = 0o644
	maxDirectoryListed = 50
)

func jsonResult(headline string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(headline + "\n" + string(data)), nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

type addFieldArgs struct {
	ScreenX *float64 `json:"screen_x"`
	ScreenY *float64 `json:"screen_y"`
}

func (s *Server) handleAddField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("type")
	if err != nil {
		return errorResult(err)
	}
	t, err := form.ParseFieldType(name)
	if err != nil {
		return errorResult(err)
	}
	var a addFieldArgs
	if err := request.BindArguments(&a); err != nil {
		return errorResult(err)
	}

	var field form.Field
	switch {
	case a.ScreenX != nil && a.ScreenY != nil:
		field, err = s.session.AddFieldAt(t, coords.ScreenPoint{X: *a.ScreenX, Y: *a.ScreenY})
	case a.ScreenX != nil || a.ScreenY != nil:
		return errorResult(errors.New("screen_x and screen_y must be given together"))
	default:
		field, err = s.session.AddField(t)
	}
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(fmt.Sprintf("Added %s field %s", t.DisplayName(), field.ID), field)
}

// updateFieldArgs holds the optional members of form_update_field; absent
// arguments stay nil and leave the field unchanged
type updateFieldArgs struct {
	Type          *string  `json:"type"`
	Label         *string  `json:"label"`
	OptionsText   *string  `json:"options_text"`
	X             *float64 `json:"x"`
	Y             *float64 `json:"y"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	Font          *string  `json:"font"`
	FontSize      *float64 `json:"font_size"`
	LineHeight    *float64 `json:"line_height"`
	Lines         *int     `json:"lines"`
	InputFont     *string  `json:"input_font"`
	InputFontSize *float64 `json:"input_font_size"`
	ImageData     *string  `json:"image_data"`
	SignatureData *string  `json:"signature_data"`
	FileData      *string  `json:"file_data"`
	RichTextData  *string  `json:"rich_text_data"`
}

func fontPtr(name *string) *form.Font {
	if name == nil {
		return nil
	}
	f := form.Font(*name)
	return &f
}

// patch maps the bound arguments onto a field patch
func (a updateFieldArgs) patch() (form.Patch, error) {
	p := form.Patch{
		Label:         a.Label,
		OptionsText:   a.OptionsText,
		XPosition:     a.X,
		YPosition:     a.Y,
		Width:         a.Width,
		Height:        a.Height,
		Font:          fontPtr(a.Font),
		FontSize:      a.FontSize,
		LineHeight:    a.LineHeight,
		Lines:         a.Lines,
		InputFont:     fontPtr(a.InputFont),
		InputFontSize: a.InputFontSize,
		ImageData:     a.ImageData,
		SignatureData: a.SignatureData,
		FileData:      a.FileData,
		RichTextData:  a.RichTextData,
	}
	if a.Type != nil {
		t, err := form.ParseFieldType(*a.Type)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}
	return p, nil
}

func (s *Server) handleUpdateField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return errorResult(err)
	}
	var a updateFieldArgs
	if err := request.BindArguments(&a); err != nil {
		return errorResult(err)
	}
	patch, err := a.patch()
	if err != nil {
		return errorResult(err)
	}

	changed, err := s.session.UpdateField(id, patch)
	if err != nil {
		return errorResult(err)
	}
	if !changed {
		return mcp.NewToolResultText(fmt.Sprintf("No field with id %s; nothing changed", id)), nil
	}
	field, _ := s.session.Fields().Find(id)
	return jsonResult(fmt.Sprintf("Updated field %s", id), field)
}

func (s *Server) handleDeleteField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return errorResult(err)
	}
	if !s.session.DeleteField(id) {
		return mcp.NewToolResultText(fmt.Sprintf("No field with id %s; nothing changed", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted field %s (%d remaining)", id, len(s.session.Fields()))), nil
}

// moveFieldArgs binds as integers so fractional indexes are rejected
type moveFieldArgs struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (s *Server) handleMoveField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var a moveFieldArgs
	if err := request.BindArguments(&a); err != nil {
		return errorResult(err)
	}
	switch {
	case a.From == nil:
		return errorResult(errors.New(`required argument "from" not found`))
	case a.To == nil:
		return errorResult(errors.New(`required argument "to" not found`))
	}
	if err := s.session.MoveField(*a.From, *a.To); err != nil {
		return errorResult(err)
	}
	return jsonResult(fmt.Sprintf("Moved field %d to %d", *a.From, *a.To), s.session.Fields())
}

func (s *Server) handleListFields(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fields := s.session.Fields()
	return jsonResult(fmt.Sprintf("%d field(s)", len(fields)), fields)
}

func (s *Server) handleReset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.Reset()
	return mcp.NewToolResultText("Form reset: all fields removed"), nil
}

type textConfigArgs struct {
	Font            *string  `json:"font"`
	FontSize        *float64 `json:"font_size"`
	LineHeight      *float64 `json:"line_height"`
	LabelSpacing    *float64 `json:"label_spacing"`
	VerticalSpacing *float64 `json:"vertical_spacing"`
}

func (s *Server) handleSetTextConfig(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var a textConfigArgs
	if err := request.BindArguments(&a); err != nil {
		return errorResult(err)
	}
	p := form.TextConfigPatch{
		Font:            fontPtr(a.Font),
		FontSize:        a.FontSize,
		LineHeight:      a.LineHeight,
		LabelSpacing:    a.LabelSpacing,
		VerticalSpacing: a.VerticalSpacing,
	}

	cfg, err := s.session.SetTextConfig(p)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult("Text config updated", cfg)
}

func (s *Server) handleSetLayoutMode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("mode")
	if err != nil {
		return errorResult(err)
	}
	mode, err := reorder.ParseMode(name)
	if err != nil {
		return errorResult(err)
	}
	if err := s.session.SetLayoutMode(mode); err != nil {
		return errorResult(err)
	}
	return jsonResult(fmt.Sprintf("Layout mode set to %s", mode), s.session.LayoutMode())
}

func (s *Server) handleZoom(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return errorResult(err)
	}

	var z coords.Zoom
	switch strings.ToLower(action) {
	case "in":
		z = s.session.ZoomIn()
	case "out":
		z = s.session.ZoomOut()
	case "set":
		value, err := request.RequireFloat("value")
		if err != nil {
			return errorResult(err)
		}
		z = s.session.SetZoom(value)
	default:
		return errorResult(fmt.Errorf("unknown zoom action %q (valid: in, out, set)", action))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Zoom: %.1f", float64(z))), nil
}

func (s *Server) handleDragStart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return errorResult(err)
	}
	superseded, err := s.session.DragStart(id)
	if err != nil {
		return errorResult(err)
	}
	text := fmt.Sprintf("Dragging field %s", id)
	if superseded != "" {
		text += fmt.Sprintf(" (cancelled drag of %s)", superseded)
	}
	return mcp.NewToolResultText(text), nil
}

// containerArgs is the optional drop container; zero width or height
// leaves that side unbounded
type containerArgs struct {
	Left   float64 `json:"container_left"`
	Top    float64 `json:"container_top"`
	Width  float64 `json:"container_width"`
	Height float64 `json:"container_height"`
}

func (s *Server) handleDrop(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientX, err := request.RequireFloat("client_x")
	if err != nil {
		return errorResult(err)
	}
	clientY, err := request.RequireFloat("client_y")
	if err != nil {
		return errorResult(err)
	}
	var a containerArgs
	if err := request.BindArguments(&a); err != nil {
		return errorResult(err)
	}
	container := coords.Container{Left: a.Left, Top: a.Top, Width: a.Width, Height: a.Height}

	move, applied, err := s.session.Drop(clientX, clientY, container)
	if err != nil {
		if errors.Is(err, interaction.ErrOutsideContainer) {
			return errorResult(fmt.Errorf("%w; the drag is still active", err))
		}
		return errorResult(err)
	}
	if !applied {
		return mcp.NewToolResultText(fmt.Sprintf("Field %s no longer exists; drop ignored", move.FieldID)), nil
	}
	return jsonResult(fmt.Sprintf("Moved field %s to (%.1f, %.1f)", move.FieldID, move.To.X, move.To.Y), move)
}

func (s *Server) handleDragEnd(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.session.DragEnd()
	if state.Phase == interaction.PhaseCancelled {
		return mcp.NewToolResultText(fmt.Sprintf("Drag of %s cancelled without a drop", state.FieldID)), nil
	}
	return mcp.NewToolResultText("Drag finished"), nil
}

func (s *Server) handleLoadBase(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("clear", false) {
		s.session.ClearBase()
		return mcp.NewToolResultText("Base document cleared; using a blank page"), nil
	}

	path, err := request.RequireString("path")
	if err != nil {
		return errorResult(err)
	}
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return errorResult(err)
	}
	data, err := s.validator.ReadFile(resolved)
	if err != nil {
		return errorResult(err)
	}
	base, err := s.session.LoadBase(data)
	if err != nil {
		return errorResult(err)
	}

	s.logger.Info("base document loaded", zap.String("path", resolved), zap.Int("pages", base.PageCount))
	return jsonResult(fmt.Sprintf("Loaded base document %s", resolved), base)
}

type exportSummary struct {
	Path     string   `json:"path"`
	Bytes    int      `json:"bytes"`
	Fields   int      `json:"fields"`
	Token    uint64   `json:"token"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleExportPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("output", "")
	if name == "" {
		name = defaultExportName
	}
	out, err := s.paths.OutputPath(name, ".pdf")
	if err != nil {
		return errorResult(err)
	}

	result, err := s.session.Export(ctx)
	if err != nil {
		return errorResult(err)
	}
	doc := result.Document
	if err := os.WriteFile(out, doc.Data, outputFilePerm); err != nil {
		return errorResult(fmt.Errorf("failed to write %s: %w", out, err))
	}
	s.scanner.Invalidate(s.paths.Root())

	return jsonResult(fmt.Sprintf("Exported form to %s", out), exportSummary{
		Path:     out,
		Bytes:    len(doc.Data),
		Fields:   doc.Fields,
		Token:    result.Token,
		Warnings: doc.Warnings,
	})
}

func (s *Server) handleRenderOverlay(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("output", "")
	svg, err := s.session.Overlay()
	if err != nil {
		return errorResult(err)
	}
	if name == "" {
		return mcp.NewToolResultText(string(svg)), nil
	}

	out, err := s.paths.OutputPath(name, ".svg")
	if err != nil {
		return errorResult(err)
	}
	if err := os.WriteFile(out, svg, outputFilePerm); err != nil {
		return errorResult(fmt.Errorf("failed to write %s: %w", out, err))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wrote overlay to %s (%d bytes)", out, len(svg))), nil
}

func (s *Server) handleInspectPDF(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult(err)
	}
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return errorResult(err)
	}
	if res := s.validator.ValidateFile(resolved); !res.Valid {
		return errorResult(errors.New(res.Message))
	}
	report, err := s.inspector.InspectFile(resolved)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(fmt.Sprintf("%s: %d page(s), %d field(s)", resolved, report.PageCount, len(report.Fields)), report)
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult("Server information", s.serverInfo(ctx))
}

func (s *Server) serverInfo(ctx context.Context) pdf.ServerInfoResult {
	names := descriptions.GetAllToolNames()
	tools := make([]pdf.ToolInfo, 0, len(names))
	for _, name := range names {
		tools = append(tools, pdf.ToolInfo{Name: name, Description: descriptions.GetToolDescription(name)})
	}

	files, err := s.scanner.Scan(ctx, s.paths.Root())
	if err != nil {
		s.logger.Warn("directory scan failed", zap.String("directory", s.paths.Root()), zap.Error(err))
	}
	if len(files) > maxDirectoryListed {
		files = files[:maxDirectoryListed]
	}

	fonts := form.SupportedFonts()
	fontNames := make([]string, len(fonts))
	for i, f := range fonts {
		fontNames[i] = string(f)
	}

	state := s.session.State()
	layoutMode := string(state.Layout.Mode)
	if layoutMode == "" {
		layoutMode = config.LayoutStacked
	}

	return pdf.ServerInfoResult{
		ServerName:        s.config.ServerName,
		Version:           s.config.Version,
		DefaultDirectory:  s.paths.Root(),
		MaxFileSize:       s.validator.MaxFileSize(),
		LayoutMode:        layoutMode,
		Page:              state.Page,
		AvailableTools:    tools,
		DirectoryContents: files,
		SupportedFonts:    fontNames,
		FieldTypes:        fieldTypeNames(),
	}
}
