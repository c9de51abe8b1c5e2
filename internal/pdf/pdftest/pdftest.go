// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Builder assembles numbered objects into a PDF with a valid xref table
type Builder struct {
	objects []string
}

// Reserve allocates an object number to be filled in later with Set
func (b *Builder) Reserve() int {
	b.objects = append(b.objects, "null")
	return len(b.objects)
}

// Add appends an object and returns its number
func (b *Builder) Add(body string) int {
	n := b.Reserve()
	b.Set(n, body)
	return n
}

// Set replaces the body of object n
func (b *Builder) Set(n int, body string) {
	b.objects[n-1] = body
}

// Bytes serialises the document with root as its catalog
func (b *Builder) Bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(b.objects))
	for i, obj := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, root, xref)
	return buf.Bytes()
}

// Ref formats an indirect reference
func Ref(n int) string {
	return fmt.Sprintf("%d 0 R", n)
}

func refs(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = Ref(n)
	}
	return strings.Join(parts, " ")
}

// Blank returns a PDF with pages blank pages of the given size
func Blank(width, height float64, pages int) []byte {
	if pages < 1 {
		pages = 1
	}
	b := &Builder{}
	catalog := b.Reserve()
	pagesObj := b.Reserve()
	kids := make([]int, pages)
	for i := range kids {
		kids[i] = b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 %g %g] /Resources << >> >>",
			Ref(pagesObj), width, height))
	}
	b.Set(pagesObj, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", refs(kids), pages))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", Ref(pagesObj)))
	return b.Bytes(catalog)
}

// Letter returns a single blank US Letter page
func Letter() []byte {
	return Blank(612, 792, 1)
}

// Form returns a one-page Letter document with an AcroForm holding a text
// field "name", a choice field "size" with options S/M/L and a radio group
// "color" with two widgets
func Form() []byte {
	b := &Builder{}
	catalog := b.Reserve()
	pagesObj := b.Reserve()
	page := b.Reserve()

	text := b.Add("<< /FT /Tx /T (name) /V (Ada) /Rect [50 700 150 720] /Subtype /Widget /Type /Annot >>")
	choice := b.Add("<< /FT /Ch /T (size) /Opt [(S) (M) (L)] /Rect [50 650 150 670] /Subtype /Widget /Type /Annot >>")
	radio := b.Reserve()
	red := b.Add(fmt.Sprintf("<< /Parent %s /Rect [50 600 60 610] /Subtype /Widget /Type /Annot >>", Ref(radio)))
	blue := b.Add(fmt.Sprintf("<< /Parent %s /Rect [50 585 60 595] /Subtype /Widget /Type /Annot >>", Ref(radio)))
	b.Set(radio, fmt.Sprintf("<< /FT /Btn /Ff 49152 /T (color) /V /red /Kids [%s] >>", refs([]int{red, blue})))

	b.Set(page, fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] /Resources << >> /Annots [%s] >>",
		Ref(pagesObj), refs([]int{text, choice, red, blue})))
	b.Set(pagesObj, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", Ref(page)))
	acro := b.Add(fmt.Sprintf("<< /Fields [%s] >>", refs([]int{text, choice, radio})))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s /AcroForm %s >>", Ref(pagesObj), Ref(acro)))
	return b.Bytes(catalog)
}
