package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Section names recognised in resume text.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

var sectionHeaders = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{SectionSummary, regexp.MustCompile(`(?im)^[ \t]*(professional summary|summary|objective|about)\b`)},
	{SectionExperience, regexp.MustCompile(`(?im)^[ \t]*(work experience|experience|employment history|professional history)\b`)},
	{SectionEducation, regexp.MustCompile(`(?im)^[ \t]*(education|academic background)\b`)},
	{SectionSkills, regexp.MustCompile(`(?im)^[ \t]*(skills|technical skills|key skills|core competencies)\b`)},
}

type headerMatch struct {
	name       string
	start, end int
}

// IdentifySections splits resume text on common heading lines. Each section
// runs from the end of its heading to the start of the next recognised heading.
// Only the first heading of each kind counts; missing sections are absent from the map.
func IdentifySections(text string) map[string]string {
	var found []headerMatch
	for _, h := range sectionHeaders {
		loc := h.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		found = append(found, headerMatch{name: h.name, start: loc[0], end: loc[1]})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	sections := make(map[string]string, len(found))
	for i, m := range found {
		stop := len(text)
		if i+1 < len(found) {
			stop = found[i+1].start
		}
		if stop < m.end {
			continue
		}
		body := strings.Trim(text[m.end:stop], ": \t\r\n")
		if body != "" {
			sections[m.name] = body
		}
	}
	return sections
}
