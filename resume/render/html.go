// Package render turns final resume sections into HTML and PDF documents.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html"
	"html/template"
	"strings"

	"resumeforge/resume/model"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(template.ParseFS(templateFS, "templates/resume.html.tmpl"))

// DefaultName heads documents rendered without a candidate name.
const DefaultName = "Generated Resume"

// Header is the contact block printed above the sections. Empty fields are omitted.
type Header struct {
	Name     string
	Email    string
	Phone    string
	LinkedIn string
	GitHub   string
}

type pageData struct {
	Header     Header
	Contact    []string
	CSS        template.CSS
	Summary    template.HTML
	Experience template.HTML
	Projects   template.HTML
	Skills     template.HTML
	Education  template.HTML
}

// HTML renders sections into a standalone HTML document. It is a pure
// function of its inputs.
func HTML(sections model.Sections, header Header) (string, error) {
	if err := sections.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(header.Name) == "" {
		header.Name = DefaultName
	}

	p := pageData{
		Header:     header,
		Contact:    contactLine(header),
		CSS:        template.CSS(css()),
		Summary:    MarkdownToHTML(sections.Summary),
		Experience: MarkdownToHTML(sections.Experience),
		Projects:   MarkdownToHTML(sections.Projects),
		Skills:     MarkdownToHTML(sections.Skills),
	}
	if sections.HasEducation() {
		p.Education = MarkdownToHTML(sections.Education)
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, p); err != nil {
		return "", errors.New("render resume html: " + err.Error())
	}
	return buf.String(), nil
}

func contactLine(h Header) []string {
	var out []string
	for _, v := range []string{h.Email, h.Phone, h.LinkedIn, h.GitHub} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// MarkdownToHTML converts "* " bullet runs into <ul><li> lists and every other
// non-empty line into a <p>. Line text is HTML-escaped.
func MarkdownToHTML(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	inList := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "* ") {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(strings.TrimSpace(line[2:])))
			b.WriteString("</li>")
			continue
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		if line != "" {
			b.WriteString("<p>")
			b.WriteString(html.EscapeString(line))
			b.WriteString("</p>")
		}
	}
	if inList {
		b.WriteString("</ul>")
	}
	return template.HTML(b.String())
}
