package analyses

import "time"

// Report is the final holistic evaluation of a resume.
type Report struct {
	OverallScore    int                `json:"overall_score"`
	CategoryScores  map[string]float64 `json:"category_scores"`
	Feedback        map[string]string  `json:"feedback"`
	Recommendations []string           `json:"recommendations"`
}

// Persona describes the ideal candidate for a target role. The zero value is
// the empty persona used when generation fails.
type Persona struct {
	RoleTitle           string   `json:"role_title,omitempty"`
	HardSkills          []string `json:"hard_skills,omitempty"`
	SoftSkills          []string `json:"soft_skills,omitempty"`
	KeyResponsibilities []string `json:"key_responsibilities,omitempty"`
}

// IsEmpty reports whether the persona carries no information.
func (p Persona) IsEmpty() bool {
	return p.RoleTitle == "" && len(p.HardSkills) == 0 && len(p.SoftSkills) == 0 && len(p.KeyResponsibilities) == 0
}

// Analysis is a persisted analysis run.
type Analysis struct {
	ID          string    `json:"id"`
	JobRole     string    `json:"jobRole"`
	FileName    string    `json:"fileName"`
	ContentHash string    `json:"contentHash"`
	PageCount   int       `json:"pageCount"`
	Provider    string    `json:"provider"`
	DurationMs  int64     `json:"durationMs"`
	Report      Report    `json:"report"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Upload is an uploaded resume awaiting analysis.
type Upload struct {
	Data     []byte
	FileName string
	MimeType string
	JobRole  string
}
