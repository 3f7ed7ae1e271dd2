package ai

import (
	"context"
	"log/slog"

	"github.com/hrygo/designgenie/store"
)

// maxMoodboardImages bounds the image list of a moodboard.
const maxMoodboardImages = 4

const moodboardSystemPrompt = `You are an expert interior designer. Based on the customer profile the user provides, generate a moodboard that visually represents a design direction closely aligned with the customer's preferences and needs.

Respond ONLY with a JSON object of the shape {"title": "...", "moodboardDescription": "...", "imageUrls": ["..."]} with between 1 and 4 image URLs. The image URLs MUST be publicly accessible. Do not generate placeholder URLs.`

// fallbackMoodboard is the static moodboard used when generation
// fails entirely.
func fallbackMoodboard() store.Moodboard {
	return store.NewMoodboard(
		"Balanced Contemporary",
		"A calm, balanced direction mixing warm neutrals with natural textures. Clean-lined furniture keeps the space functional while soft lighting and layered textiles make it inviting.",
		[]string{
			"https://images.unsplash.com/photo-1586023492125-27b2c045efd7",
			"https://images.unsplash.com/photo-1618221195710-dd6b41faaea6",
		},
		store.CreatorAI,
	)
}

type moodboardOutput struct {
	Title                string   `json:"title"`
	MoodboardDescription string   `json:"moodboardDescription"`
	ImageURLs            []string `json:"imageUrls"`
}

// GenerateMoodboard produces an AI-authored moodboard for the given
// customer profile, falling back to a static board on failure.
func (p *Provider) GenerateMoodboard(ctx context.Context, customerProfile string) store.Moodboard {
	var out moodboardOutput
	if err := p.generateJSON(ctx, moodboardSystemPrompt, customerProfile, &out); err != nil ||
		out.MoodboardDescription == "" || len(out.ImageURLs) == 0 {
		slog.Warn("moodboard generation failed, using fallback", "error", err)
		return fallbackMoodboard()
	}

	if len(out.ImageURLs) > maxMoodboardImages {
		out.ImageURLs = out.ImageURLs[:maxMoodboardImages]
	}
	if out.Title == "" {
		out.Title = "Design Direction"
	}
	return store.NewMoodboard(out.Title, out.MoodboardDescription, out.ImageURLs, store.CreatorAI)
}
