package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// LoadBase validates data and reads the geometry of its first page. Nothing
// is returned on failure, so a caller keeps its previous base document.
func (v *Validator) LoadBase(data []byte) (*BaseDocument, error) {
	pages, err := v.ValidateBytes(data)
	if err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeInputUnreadable, fmt.Errorf("failed to read page size: %w", err))
	}
	if len(dims) == 0 {
		return nil, pdferrors.New(pdferrors.ErrorTypeInputUnreadable, "document has no page dimensions")
	}

	page := coords.Page{Width: dims[0].Width, Height: dims[0].Height}
	if !page.Valid() {
		return nil, pdferrors.New(pdferrors.ErrorTypeInputUnreadable,
			fmt.Sprintf("invalid first page size %.2fx%.2f", page.Width, page.Height))
	}

	return &BaseDocument{
		Data:      append([]byte(nil), data...),
		Page:      page,
		PageCount: pages,
	}, nil
}
