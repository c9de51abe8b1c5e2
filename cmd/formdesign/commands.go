package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/config"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/overlay"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/export"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/inspect"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/storage"
)

const outputPerm = 0o644

// newBackend creates the PDF backend used by render
var newBackend = func(logger *zap.Logger) export.Backend {
	return export.NewPDFCPUBackend(logger, "")
}

// design is the on-disk form description read by render and overlay
type design struct {
	Fields     form.List        `json:"fields" yaml:"fields"`
	TextConfig *form.TextConfig `json:"textConfig,omitempty" yaml:"textConfig,omitempty"`
	Page       *coords.Page     `json:"page,omitempty" yaml:"page,omitempty"`
}

func (d design) textConfig() form.TextConfig {
	if d.TextConfig == nil {
		return form.DefaultTextConfig()
	}
	return *d.TextConfig
}

func (d design) page() coords.Page {
	if d.Page == nil || !d.Page.Valid() {
		return coords.Page{Width: config.DefaultPageWidth, Height: config.DefaultPageHeight}
	}
	return *d.Page
}

// loadDesign reads a JSON or YAML design, chosen by extension
func loadDesign(path string) (design, error) {
	var d design
	codec, err := storage.CodecFor(path)
	if err != nil {
		return d, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read design: %w", err)
	}
	if err := codec.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse design %s: %w", path, err)
	}
	if err := d.Fields.Validate(); err != nil {
		return d, fmt.Errorf("invalid design %s: %w", path, err)
	}
	if err := d.textConfig().Validate(); err != nil {
		return d, fmt.Errorf("invalid design %s: %w", path, err)
	}
	for i := range d.Fields {
		d.Fields[i] = d.Fields[i].Normalize()
	}
	return d, nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formdesign",
		Short: "Render and inspect fillable PDF form designs",
		Long: `formdesign works with form designs outside the MCP server.

A design is a JSON or YAML file with a "fields" list and an optional
"textConfig". Field positions are in points from the top-left of the page.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "Log progress to stderr")

	root.AddCommand(newRenderCommand(), newOverlayCommand(), newInspectCommand())
	return root
}

func newRenderCommand() *cobra.Command {
	var output, base string
	var maxSize int64

	cmd := &cobra.Command{
		Use:   "render <design>",
		Short: "Export a design as an interactive PDF",
		Example: `  formdesign render signup.yaml -o signup.pdf
  formdesign render signup.json -o filled.pdf --base letterhead.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := newLogger(verbose)
			defer func() { _ = logger.Sync() }()

			d, err := loadDesign(args[0])
			if err != nil {
				return err
			}
			req := export.Request{Fields: d.Fields, Config: d.textConfig(), Page: d.page()}

			if base != "" {
				validator := pdf.NewValidator(maxSize)
				data, err := validator.ReadFile(base)
				if err != nil {
					return err
				}
				doc, err := validator.LoadBase(data)
				if err != nil {
					return err
				}
				req.Base, req.BasePage = doc.Data, doc.Page
			}

			exporter := export.NewExporter(newBackend(logger), logger, nil)
			doc, err := exporter.Export(context.Background(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, doc.Data, outputPerm); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d fields, %d bytes)\n", output, doc.Fields, len(doc.Data))
			for _, w := range doc.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "form.pdf", "Output PDF path")
	cmd.Flags().StringVar(&base, "base", "", "Place the fields on the first page of this PDF")
	cmd.Flags().Int64Var(&maxSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum base PDF size in bytes")
	return cmd
}

func newOverlayCommand() *cobra.Command {
	var output, highlight string
	var zoom float64

	cmd := &cobra.Command{
		Use:     "overlay <design>",
		Short:   "Draw the editor overlay of a design as SVG",
		Example: `  formdesign overlay signup.yaml -o signup.svg --zoom 1.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDesign(args[0])
			if err != nil {
				return err
			}
			plan := layout.Build(d.Fields, d.textConfig(), d.page())
			svg, err := overlay.RenderSVG(plan, overlay.Options{Zoom: coords.ClampZoom(zoom), Highlight: highlight})
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(output, svg, outputPerm); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d fields)\n", output, len(plan.Placements))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "overlay.svg", "Output SVG path, - for stdout")
	cmd.Flags().Float64Var(&zoom, "zoom", coords.DefaultZoom, "Zoom factor")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Field id drawn as being dragged")
	return cmd
}

func newInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "List the interactive fields of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			report, err := inspect.New(newLogger(verbose)).InspectFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "text":
				return printReport(out, report)
			default:
				return fmt.Errorf("unknown format %q (valid: text, json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func printReport(out io.Writer, report *inspect.Report) error {
	fmt.Fprintf(out, "Pages: %d\n", report.PageCount)
	fmt.Fprintf(out, "Page size: %vx%v\n", report.Page.Width, report.Page.Height)
	fmt.Fprintf(out, "Fields: %d\n", len(report.Fields))
	if len(report.Fields) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVALUE\tWIDGETS")
	for _, f := range report.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", f.Name, f.Kind, f.Value, f.Widgets)
	}
	return tw.Flush()
}
