package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/shared/apperr"
)

// buildPDF assembles a minimal uncompressed PDF with one text line per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractPDFReportsPageCount(t *testing.T) {
	data := buildPDF(t, "Jane Doe", "Experience", "Education")

	doc, err := Extract(context.Background(), data, "resume.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, doc.Format)
	assert.Equal(t, 3, doc.PageCount)
	assert.Contains(t, doc.Text, "Jane Doe")
	assert.Contains(t, doc.Text, "Education")
}

func TestExtractDOCXFromZipMime(t *testing.T) {
	data := buildDOCX(t, "Summary", "Backend engineer", "Skills", "Go, SQL")

	doc, err := Extract(context.Background(), data, "resume.docx", "application/zip")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, "Summary\nBackend engineer\nSkills\nGo, SQL", doc.Text)
}

func TestExtractPlainText(t *testing.T) {
	doc, err := Extract(context.Background(), []byte("\ufeffJane Doe\njane@example.com\n"), "resume.txt", "")
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, 1, doc.PageCount)
	assert.True(t, strings.HasPrefix(doc.Text, "Jane Doe"))
}

func TestExtractRejectsRealZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(context.Background(), buf.Bytes(), "notes.zip", "application/zip")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInput, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "unsupported file type: application/zip")
}

func TestExtractInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		fileName string
		mime     string
	}{
		{name: "empty upload", data: nil, fileName: "resume.pdf", mime: "application/pdf"},
		{name: "unsupported image", data: []byte{0x89, 'P', 'N', 'G'}, fileName: "photo.png", mime: "image/png"},
		{name: "corrupt pdf", data: []byte("%PDF-1.4\nnot really"), fileName: "resume.pdf", mime: "application/pdf"},
		{name: "docx without document", data: []byte("PK"), fileName: "resume.docx", mime: ""},
		{name: "blank text", data: []byte("  \n\t\n"), fileName: "resume.txt", mime: "text/plain"},
		{name: "binary text", data: []byte{0xff, 0xfe, 0xfd}, fileName: "resume.txt", mime: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(context.Background(), tt.data, tt.fileName, tt.mime)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInput, apperr.KindOf(err))
		})
	}
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Extract(ctx, []byte("text"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectFormatFallsBackToExtension(t *testing.T) {
	format, err := DetectFormat("application/octet-stream", "CV.PDF", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	format, err = DetectFormat("text/plain; charset=utf-8", "cv", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)
}
