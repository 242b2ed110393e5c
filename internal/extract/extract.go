package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"resumeforge/internal/shared/apperr"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// Format identifies a supported resume file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

// Document is the extracted plain text of an uploaded resume.
type Document struct {
	Text      string
	PageCount int
	Format    Format
}

// ErrEmptyText is returned when a document parses but carries no text.
var ErrEmptyText = errors.New("no text could be extracted from the document")

// Extract pulls text and a page count from an in-memory upload.
// Only PDFs report a real page count; other formats count as one page.
// Every failure is an input error: the caller gave us something we cannot read.
func Extract(ctx context.Context, data []byte, fileName, mimeType string) (Document, error) {
	const op = "extract"
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, apperr.E(apperr.KindInput, op, errors.New("uploaded file is empty"))
	}

	format, err := DetectFormat(mimeType, fileName, data)
	if err != nil {
		return Document{}, apperr.E(apperr.KindInput, op, err)
	}

	doc := Document{Format: format, PageCount: 1}
	switch format {
	case FormatPDF:
		doc.Text, doc.PageCount, err = extractPDF(data)
	case FormatDOCX:
		doc.Text, err = extractDOCX(data)
	case FormatText:
		doc.Text, err = extractText(data)
	}
	if err != nil {
		return Document{}, apperr.E(apperr.KindInput, op, fmt.Errorf("%s: %w", format, err))
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, apperr.E(apperr.KindInput, op, ErrEmptyText)
	}
	return doc, nil
}

// DetectFormat resolves the upload format from its declared mime type,
// falling back to the file extension and, for zip containers, the OOXML layout.
func DetectFormat(mimeType, fileName string, data []byte) (Format, error) {
	clean := normalizeMimeType(mimeType, fileName, data)
	switch clean {
	case mimePDF:
		return FormatPDF, nil
	case mimeDOCX:
		return FormatDOCX, nil
	case mimeText:
		return FormatText, nil
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt":
		return FormatText, nil
	}
	if clean == "" {
		clean = "unknown"
	}
	return "", fmt.Errorf("unsupported file type: %s (expected .pdf, .docx or .txt)", clean)
}

func extractPDF(data []byte) (string, int, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	pages := pdfReader.NumPage()
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, err
	}
	if pages < 1 {
		pages = 1
	}
	return buf.String(), pages, nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" && clean != "application/octet-stream" {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}
	if strings.EqualFold(filepath.Ext(fileName), ".docx") && clean == "application/zip" {
		return mimeDOCX
	}
	return clean
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
