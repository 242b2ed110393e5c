package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `Jane Doe
jane@example.com

Professional Summary:
Backend engineer with eight years of experience.

Work Experience
Acme Corp - Senior Engineer
* Built billing pipeline

Education
BSc Computer Science

Technical Skills
Go, PostgreSQL, Kubernetes`

func TestIdentifySections(t *testing.T) {
	sections := IdentifySections(sampleResume)

	assert.Equal(t, "Backend engineer with eight years of experience.", sections[SectionSummary])
	assert.Equal(t, "Acme Corp - Senior Engineer\n* Built billing pipeline", sections[SectionExperience])
	assert.Equal(t, "BSc Computer Science", sections[SectionEducation])
	assert.Equal(t, "Go, PostgreSQL, Kubernetes", sections[SectionSkills])
}

func TestIdentifySectionsIgnoresInlineWords(t *testing.T) {
	sections := IdentifySections("Jane Doe\nExperienced engineer who loves skills-based hiring.\n")
	assert.Empty(t, sections)
}

func TestIdentifySectionsPartial(t *testing.T) {
	sections := IdentifySections("SKILLS\nGo\nRust\n")
	assert.Equal(t, map[string]string{SectionSkills: "Go\nRust"}, sections)
}
