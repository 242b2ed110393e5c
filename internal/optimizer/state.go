// Package optimizer runs the linear resume-tailoring pipeline: job context,
// company research, strategy, draft, ATS refinement and final review.
package optimizer

import (
	"resumeforge/resume/model"
)

// Input is what a caller supplies to start a run.
type Input struct {
	JobDescription string `json:"job_description" form:"job_description" validate:"required,max=20000"`
	Role           string `json:"job_role" form:"job_role" validate:"required,max=200"`
	Company        string `json:"company_name" form:"company_name" validate:"required,max=200"`
}

// JobContext is the structured reading of the job description.
type JobContext struct {
	Role                string   `json:"role"`
	Company             string   `json:"company"`
	Skills              []string `json:"skills"`
	Responsibilities    []string `json:"responsibilities"`
	Tone                string   `json:"tone"`
	ExperienceLevel     string   `json:"experience_level"`
	BooleanSearchString string   `json:"boolean_search_string"`
}

// Research holds company insights synthesised from web search.
type Research struct {
	CompanyStyle string   `json:"company_style"`
	MissionFocus string   `json:"mission_focus"`
	KeyPhrases   []string `json:"key_phrases"`
}

// Strategy is the resume plan the draft follows.
type Strategy struct {
	Sections      []string `json:"sections"`
	PriorityOrder []string `json:"priority_order"`
	ToneOfVoice   string   `json:"tone_of_voice"`
	Guidelines    []string `json:"guidelines"`
}

// FinalReport is the reviewed, structured resume.
type FinalReport struct {
	ReadabilityScore float64        `json:"readability_score"`
	FinalResume      model.Sections `json:"final_resume"`
}

// State accumulates stage outputs. Stage k only reads fields filled by
// earlier stages.
type State struct {
	Input

	Context       *JobContext
	Research      *Research
	Strategy      *Strategy
	DraftText     string
	OptimizedText string
	FinalReport   *FinalReport
}

// StateUpdate is what one stage contributes. Nil and empty fields leave the
// state unchanged.
type StateUpdate struct {
	Context       *JobContext
	Research      *Research
	Strategy      *Strategy
	DraftText     string
	OptimizedText string
	FinalReport   *FinalReport
}

// Apply returns a copy of s with u merged in; s itself is not modified.
func (s State) Apply(u StateUpdate) State {
	next := s
	if u.Context != nil {
		next.Context = u.Context
	}
	if u.Research != nil {
		next.Research = u.Research
	}
	if u.Strategy != nil {
		next.Strategy = u.Strategy
	}
	if u.DraftText != "" {
		next.DraftText = u.DraftText
	}
	if u.OptimizedText != "" {
		next.OptimizedText = u.OptimizedText
	}
	if u.FinalReport != nil {
		next.FinalReport = u.FinalReport
	}
	return next
}

// NewState seeds a run from its input.
func NewState(in Input) State {
	return State{Input: in}
}
