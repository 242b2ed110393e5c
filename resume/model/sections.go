package model

import (
	"errors"
	"strings"
)

// Sections is the final tailored resume, one markdown-like block per section.
// Bullet lines start with "* ".
type Sections struct {
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	Projects   string `json:"projects"`
	Skills     string `json:"skills"`
	Education  string `json:"education,omitempty"`
}

// Validate enforces the sections every rendered resume needs.
func (s Sections) Validate() error {
	if strings.TrimSpace(s.Summary) == "" {
		return errors.New("summary is required")
	}
	if strings.TrimSpace(s.Experience) == "" {
		return errors.New("experience is required")
	}
	if strings.TrimSpace(s.Skills) == "" {
		return errors.New("skills is required")
	}
	return nil
}

// HasEducation reports whether the optional education section is present.
func (s Sections) HasEducation() bool {
	return strings.TrimSpace(s.Education) != ""
}
