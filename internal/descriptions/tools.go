package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Field editing
	FormAddFieldDescription = `Add a new field to the form design.

**When to use:** Building a form from scratch or extending an existing design with another input.

**Why it's useful:** New fields get a unique id, default geometry and, for radio, checkbox, dropdown and optionList, three placeholder options you can rename later.

**Examples:**
• Add a name box: type="text"
• Add a yes/no question: type="radio", then form_update_field with options_text="Yes\nNo"
• Place a signature exactly where it was dropped on the canvas: type="signature", screen_x=120, screen_y=640

**Common workflows:**
1. Add field → form_update_field (label, options) → form_export_pdf
2. Add several fields → form_move_field to reorder → form_render_overlay to check placement

**Best practices:** Without screen_x/screen_y the field goes to the next stacking slot; with them it keeps the dropped position.`

	FormUpdateFieldDescription = `Change attributes of one field.

**When to use:** Renaming a label, resizing a widget, editing options, or switching fonts.

**Why it's useful:** Only the attributes you pass are changed. An unknown id is reported as unchanged rather than failing, and an update that would make the field invalid is rejected as a whole.

**Examples:**
• Rename: id="...", label="Date of birth"
• Options: id="...", options_text="Small\nMedium\nLarge"
• Taller text area: id="...", lines=4

**Best practices:** Fonts outside the standard 14 are accepted but fall back to Helvetica at export time with a warning.`

	FormDeleteFieldDescription = `Remove a field from the design.

**When to use:** A field is no longer needed.

**Why it's useful:** Deleting an unknown id is a harmless no-op, so retries are safe. In stacked layout mode the remaining fields close the gap.`

	FormMoveFieldDescription = `Move one field to a new position in the list order.

**When to use:** Reordering questions.

**Why it's useful:** In stacked mode every field's yPosition is recomputed from its index (baseline - index*stride), so list order and page order stay consistent. In freeform mode only the order changes.`

	FormListFieldsDescription = `List every field of the design with its geometry, the shared text config, the page size, zoom and drag state.

**When to use:** Before editing, to find field ids; after editing, to verify the result.`

	FormResetDescription = `Clear the whole design. The empty list is persisted.

**When to use:** Starting over. This cannot be undone.`

	FormSetTextConfigDescription = `Change the shared text settings used by fields without their own overrides.

**When to use:** Switching the whole form to another font or size.

**Examples:**
• font="Times-Roman", font_size=11
• line_height=1.5 to space out radio and checkbox rows

**Best practices:** Option rows are stacked font_size*line_height apart.`

	FormSetLayoutModeDescription = `Choose how fields are positioned.

**stacked:** yPosition follows list order; add, delete and move restack the list.
**freeform:** fields stay where they were dropped.

Switching back to stacked restacks the list immediately.`

	FormZoomDescription = `Change the editor zoom used for drops and overlays.

action="in" or "out" steps by 0.1; action="set" with value clamps to [0.5, 2.0].`

	FormDragStartDescription = `Begin dragging a field on the canvas.

A drag already in progress is cancelled first and its id is reported.`

	FormDropDescription = `Drop the dragged field at a viewport point.

The point is made relative to the canvas container (container_left, container_top) and divided by the zoom to get the document position. A point outside a bounded container is rejected and the drag continues.`

	FormDragEndDescription = `Finish the drag lifecycle. A drag that never dropped is cancelled and the design is left untouched.`

	FormLoadBaseDescription = `Use an existing PDF as the page the fields are drawn on.

**When to use:** Turning a printed form or letterhead into a fillable PDF.

**Why it's useful:** The page size follows the first page of the document. A PDF that cannot be read is reported and the previous base is kept.

**Best practices:** Pass clear=true to go back to a blank page.`

	FormExportPDFDescription = `Generate the fillable PDF for the current design and write it into the working directory.

**Why it's useful:** Unsupported fonts never fail the export; they are replaced by Helvetica and listed as warnings.

**Common workflows:**
1. Design → export → form_inspect_pdf to confirm the widgets`

	FormRenderOverlayDescription = `Render the field boxes as an SVG overlay at the current zoom, for checking placement without generating a PDF. Optionally writes the SVG into the working directory.`

	FormInspectPDFDescription = `List the interactive form fields of a PDF in the working directory: name, kind, value, options and rectangle.

**When to use:** Verifying an export, or reading the fields of a third-party form.`

	FormServerInfoDescription = `Get server information, available tools, supported fonts and field types, and the PDFs in the working directory.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"form_add_field":       FormAddFieldDescription,
	"form_update_field":    FormUpdateFieldDescription,
	"form_delete_field":    FormDeleteFieldDescription,
	"form_move_field":      FormMoveFieldDescription,
	"form_list_fields":     FormListFieldsDescription,
	"form_reset":           FormResetDescription,
	"form_set_text_config": FormSetTextConfigDescription,
	"form_set_layout_mode": FormSetLayoutModeDescription,
	"form_zoom":            FormZoomDescription,
	"form_drag_start":      FormDragStartDescription,
	"form_drop":            FormDropDescription,
	"form_drag_end":        FormDragEndDescription,
	"form_load_base":       FormLoadBaseDescription,
	"form_export_pdf":      FormExportPDFDescription,
	"form_render_overlay":  FormRenderOverlayDescription,
	"form_inspect_pdf":     FormInspectPDFDescription,
	"form_server_info":     FormServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every tool name, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
