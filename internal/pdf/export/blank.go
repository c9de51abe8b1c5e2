package export

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
)

// BlankPage returns a single empty page of the given size. It is the base
// for exports without an uploaded document, so every export overlays onto
// an existing page.
func BlankPage(page coords.Page) ([]byte, error) {
	if !page.Valid() {
		return nil, fmt.Errorf("invalid page geometry %.2fx%.2f", page.Width, page.Height)
	}

	xRefTable, err := pdfcpu.CreateXRefTableWithRootDict()
	if err != nil {
		return nil, fmt.Errorf("failed to create xref table: %w", err)
	}
	root, err := xRefTable.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	blank := model.Page{
		MediaBox: types.RectForDim(page.Width, page.Height),
		Fm:       model.FontMap{},
		Buf:      new(bytes.Buffer),
	}
	if err := pdfcpu.AddPageTreeWithSamplePage(xRefTable, root, blank); err != nil {
		return nil, fmt.Errorf("failed to add page: %w", err)
	}

	var out bytes.Buffer
	if err := api.WriteContext(pdfcpu.CreateContext(xRefTable, model.NewDefaultConfiguration()), &out); err != nil {
		return nil, fmt.Errorf("failed to write blank page: %w", err)
	}
	return out.Bytes(), nil
}
