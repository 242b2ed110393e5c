package analyses

import "fmt"

// Scoring categories, in report order.
const (
	CategoryStructure  = "structure"
	CategorySummary    = "summary"
	CategoryExperience = "experience"
	CategorySkills     = "skills"
	CategoryLanguage   = "language"
	CategoryATS        = "ats"
	CategoryRelevance  = "relevance"
)

// Categories lists every scored category.
var Categories = []string{
	CategoryStructure,
	CategorySummary,
	CategoryExperience,
	CategorySkills,
	CategoryLanguage,
	CategoryATS,
	CategoryRelevance,
}

// weights sum to 1.0; a category's maximum contribution is weight*100 points.
var weights = map[string]float64{
	CategoryStructure:  0.15,
	CategorySummary:    0.10,
	CategoryExperience: 0.25,
	CategorySkills:     0.20,
	CategoryLanguage:   0.10,
	CategoryATS:        0.10,
	CategoryRelevance:  0.10,
}

// Weight returns the weight fraction for a category, or 0 when unknown.
func Weight(category string) float64 {
	return weights[category]
}

// Weights returns a copy of the weight table.
func Weights() map[string]float64 {
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}

func unprocessableFeedback(category string) string {
	return fmt.Sprintf("Could not process the AI's response for the '%s' category.", category)
}
