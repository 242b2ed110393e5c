package analyses

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"resumeforge/internal/shared/telemetry"
)

const (
	malformedEvaluation = "The AI evaluation response could not be processed."

	// maxCategoryPoints bounds a single category so the weighted total
	// stays finite and fits an int.
	maxCategoryPoints = float64(math.MaxInt32) / 16

	maxCauseLen = 200
)

type categoryEvaluation struct {
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
	Error    *string  `json:"error"`
}

// Aggregate merges the combined category evaluations with rule feedback into
// a weighted report.
//
// A malformed category scores 0 and gets a fallback message. When the whole
// payload is unusable (not an object, or an object carrying "error") every
// category scores 0 and a single "error" feedback entry replaces the rest.
// Scores outside 1-10 are scaled linearly without clamping; a score too large
// to represent is treated as malformed. A category slot carrying "error" keeps
// the cause in its feedback.
func Aggregate(raw json.RawMessage, ruleFeedback map[string]string) Report {
	recs := newStringSet()
	for _, v := range ruleFeedback {
		recs.add(v)
	}

	top, msg, ok := decodeTop(raw)
	if !ok {
		recs.add(msg)
		return Report{
			OverallScore:    0,
			CategoryScores:  zeroScores(),
			Feedback:        map[string]string{"error": msg},
			Recommendations: recs.sorted(),
		}
	}

	report := Report{
		CategoryScores: make(map[string]float64, len(Categories)),
		Feedback:       make(map[string]string, len(Categories)),
	}
	var total float64
	for _, category := range Categories {
		eval, cause, ok := decodeCategory(top[category])
		var points float64
		if ok {
			points = round1((*eval.Score / 10) * (Weight(category) * 100))
			ok = !math.IsNaN(points) && math.Abs(points) <= maxCategoryPoints
		}
		if !ok {
			report.CategoryScores[category] = 0
			report.Feedback[category] = withCause(unprocessableFeedback(category), cause)
			continue
		}
		report.CategoryScores[category] = points
		total += points

		fb := strings.TrimSpace(*eval.Feedback)
		report.Feedback[category] = fb
		recs.add(fb)
	}
	report.OverallScore = int(math.Round(total))
	report.Recommendations = recs.sorted()
	return report
}

// decodeTop returns the category map, or a degradation message when the
// payload is not usable as a whole.
func decodeTop(raw json.RawMessage) (map[string]json.RawMessage, string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, malformedEvaluation, false
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, malformedEvaluation, false
	}
	if errRaw, ok := top["error"]; ok {
		var msg string
		if err := json.Unmarshal(errRaw, &msg); err != nil || strings.TrimSpace(msg) == "" {
			msg = strings.TrimSpace(string(errRaw))
		}
		if msg == "" || msg == "null" {
			msg = malformedEvaluation
		}
		return nil, msg, false
	}
	return top, "", true
}

// decodeCategory returns the evaluation, or the generator's failure cause
// when the slot is an {"error": ...} payload.
func decodeCategory(raw json.RawMessage) (categoryEvaluation, string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return categoryEvaluation{}, "", false
	}
	var eval categoryEvaluation
	if err := json.Unmarshal(trimmed, &eval); err != nil {
		return categoryEvaluation{}, "", false
	}
	if eval.Error != nil {
		return categoryEvaluation{}, *eval.Error, false
	}
	if eval.Score == nil || eval.Feedback == nil {
		return categoryEvaluation{}, "", false
	}
	return eval, "", true
}

func withCause(msg, cause string) string {
	cause = strings.Join(strings.Fields(cause), " ")
	if cause == "" {
		return msg
	}
	return msg + " Cause: " + telemetry.Truncate(cause, maxCauseLen)
}

func zeroScores() map[string]float64 {
	scores := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	return scores
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type stringSet map[string]struct{}

func newStringSet() stringSet { return stringSet{} }

func (s stringSet) add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
