package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *FormError
		want string
	}{
		{"plain", New(ErrorTypeExportFailed, "backend crashed"), "[EXPORT_FAILED] backend crashed"},
		{"field", New(ErrorTypeResolutionFailure, "unknown font Wingdings").WithField("f1"), "[RESOLUTION_FAILURE] field f1: unknown font Wingdings"},
		{"context", New(ErrorTypeMalformedState, "bad json").WithContext("pdfFields"), "[MALFORMED_STATE] bad json: pdfFields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapAndIsType(t *testing.T) {
	assert.Nil(t, Wrap(ErrorTypeInputUnreadable, nil))

	wrapped := fmt.Errorf("load base: %w", Wrap(ErrorTypeInputUnreadable, io.ErrUnexpectedEOF))
	assert.True(t, IsType(wrapped, ErrorTypeInputUnreadable))
	assert.False(t, IsType(wrapped, ErrorTypeExportFailed))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.False(t, IsType(io.EOF, ErrorTypeInputUnreadable))
}

func TestErrorType_Classification(t *testing.T) {
	assert.True(t, ErrorTypeResolutionFailure.IsRecoverable())
	assert.False(t, ErrorTypeExportFailed.IsRecoverable())
	assert.Equal(t, SeverityWarning, ErrorTypeMalformedState.GetSeverity())
	assert.Equal(t, SeverityError, ErrorTypeExportFailed.GetSeverity())
	assert.Equal(t, "UNKNOWN", ErrorTypeUnknown.String())
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection()
	assert.Equal(t, "No errors or warnings", ec.Summary())

	ec.Add(New(ErrorTypeResolutionFailure, "font").WithField("a"))
	ec.Add(New(ErrorTypeExportFailed, "boom"))
	ec.Add(nil)

	errs, warnings := ec.Count()
	require.Equal(t, 1, errs)
	require.Equal(t, 1, warnings)
	assert.Equal(t, []string{"[RESOLUTION_FAILURE] field a: font"}, ec.Messages())
	assert.Equal(t, "Found 1 error(s) and 1 warning(s)", ec.Summary())
}
