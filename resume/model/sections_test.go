package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsValidate(t *testing.T) {
	valid := Sections{Summary: "s", Experience: "* e", Skills: "Go"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(*Sections)
		want string
	}{
		{name: "summary", mut: func(s *Sections) { s.Summary = " " }, want: "summary is required"},
		{name: "experience", mut: func(s *Sections) { s.Experience = "" }, want: "experience is required"},
		{name: "skills", mut: func(s *Sections) { s.Skills = "\n" }, want: "skills is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mut(&s)
			assert.EqualError(t, s.Validate(), tt.want)
		})
	}
}

func TestSectionsOmitsEmptyEducation(t *testing.T) {
	b, err := json.Marshal(Sections{Summary: "s", Experience: "e", Skills: "k"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "education")
	assert.False(t, Sections{Education: "  "}.HasEducation())
}
