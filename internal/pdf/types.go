package pdf

import (
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ValidateResult reports whether a candidate base document is usable
type ValidateResult struct {
	Path    string `json:"path,omitempty"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// BaseDocument is an uploaded PDF whose first page the fields are overlaid on
type BaseDocument struct {
	Data      []byte      `json:"-"`
	Page      coords.Page `json:"page"`
	PageCount int         `json:"page_count"`
}

// Size returns the length of the document in bytes
func (b *BaseDocument) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string      `json:"server_name"`
	Version           string      `json:"version"`
	DefaultDirectory  string      `json:"default_directory"`
	MaxFileSize       int64       `json:"max_file_size"`
	LayoutMode        string      `json:"layout_mode"`
	Page              coords.Page `json:"page"`
	AvailableTools    []ToolInfo  `json:"available_tools"`
	DirectoryContents []FileInfo  `json:"directory_contents"`
	SupportedFonts    []string    `json:"supported_fonts"`
	FieldTypes        []string    `json:"field_types"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
