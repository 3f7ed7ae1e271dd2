package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrygo/designgenie/store"
)

// maxRecommendations caps the list the model may return.
const maxRecommendations = 5

const recommendSystemPrompt = `You are an expert interior designer. Based on the customer profile and moodboard description the user provides, generate specific design recommendations (colors, furniture, decor) along with explanations linking each recommendation to the customer's needs, goals, and tastes.

Respond ONLY with a JSON object of the shape {"recommendations": [{"item": "...", "explanation": "..."}]} with at most 5 recommendations.`

const (
	defaultItem        = "Design element"
	defaultExplanation = "This element complements your design preferences."
)

type recommendationOutput struct {
	Recommendations []struct {
		Item        string `json:"item"`
		Explanation string `json:"explanation"`
	} `json:"recommendations"`
}

// fallbackRecommendations returns the static recommendation set used
// when generation fails entirely.
func fallbackRecommendations() []store.Recommendation {
	return []store.Recommendation{
		store.NewRecommendation(
			"Ergonomic furniture pieces",
			"Quality furniture that balances comfort and style to match your aesthetic preferences while providing functional seating options for your space."),
		store.NewRecommendation(
			"Smart lighting solutions",
			"Layered lighting options that enhance the ambiance of your space while providing both task lighting and mood lighting as needed."),
		store.NewRecommendation(
			"Cohesive color palette",
			"A harmonious selection of colors that ties your space together while reflecting your personal style preferences."),
	}
}

// GenerateRecommendations produces at most five design recommendations
// for the given profile. Entries with blank fields are filled with
// defaults; a failed generation yields the static fallback set.
func (p *Provider) GenerateRecommendations(ctx context.Context, customerProfile, moodboardDescription string) []store.Recommendation {
	userPrompt := fmt.Sprintf("Customer Profile: %s\n\nFinal Moodboard Description: %s", customerProfile, moodboardDescription)

	var out recommendationOutput
	if err := p.generateJSON(ctx, recommendSystemPrompt, userPrompt, &out); err != nil || len(out.Recommendations) == 0 {
		slog.Warn("recommendation generation failed, using fallback", "error", err)
		return fallbackRecommendations()
	}

	if len(out.Recommendations) > maxRecommendations {
		out.Recommendations = out.Recommendations[:maxRecommendations]
	}
	recommendations := make([]store.Recommendation, 0, len(out.Recommendations))
	for _, rec := range out.Recommendations {
		if rec.Item == "" {
			rec.Item = defaultItem
		}
		if rec.Explanation == "" {
			rec.Explanation = defaultExplanation
		}
		recommendations = append(recommendations, store.NewRecommendation(rec.Item, rec.Explanation))
	}
	return recommendations
}
