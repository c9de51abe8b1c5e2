package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// Validator checks candidate base documents before they are adopted
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// MaxFileSize returns the size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// ValidateFile validates the PDF at filePath and reports the outcome
func (v *Validator) ValidateFile(filePath string) *ValidateResult {
	result := &ValidateResult{Path: filePath}
	if err := v.validatePDFFile(filePath); err != nil {
		result.Message = err.Error()
		return result
	}
	result.Valid = true
	return result
}

// ReadFile validates and reads the PDF at filePath
func (v *Validator) ReadFile(filePath string) ([]byte, error) {
	if err := v.validatePDFFile(filePath); err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeInputUnreadable, err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeInputUnreadable, fmt.Errorf("failed to read file: %w", err))
	}
	return data, nil
}

func (v *Validator) validatePDFFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	return v.checkSize(fileInfo.Size())
}

// ValidateBytes checks an in-memory PDF. The returned error is an
// InputUnreadable FormError.
func (v *Validator) ValidateBytes(data []byte) (int, error) {
	if err := v.checkSize(int64(len(data))); err != nil {
		return 0, pdferrors.Wrap(pdferrors.ErrorTypeInputUnreadable, err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return 0, pdferrors.New(pdferrors.ErrorTypeInputUnreadable, "missing %PDF header")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, pdferrors.Wrap(pdferrors.ErrorTypeInputUnreadable, fmt.Errorf("invalid PDF: %w", err))
	}
	pages := r.NumPage()
	if pages < 1 {
		return 0, pdferrors.New(pdferrors.ErrorTypeInputUnreadable, "document has no pages")
	}
	return pages, nil
}

func (v *Validator) checkSize(size int64) error {
	if size == 0 {
		return fmt.Errorf("file is empty")
	}
	if size > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", size, v.maxFileSize)
	}
	return nil
}
