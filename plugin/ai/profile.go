package ai

import (
	"context"
	"encoding/json"
	"log/slog"
)

const profileSystemPrompt = `You are an expert interior designer specializing in understanding client needs and preferences.

Based on the questionnaire the user provides, generate a concise customer profile summary that integrates all available details. Focus on budget, tastes, goals, and needs based on the data provided. Explicitly mention preferred design styles, color preferences, budget considerations, comfort and usability, lifestyle specifics, and cultural or personal touches.

Respond ONLY with a JSON object of the shape {"profileSummary": "..."}.`

// fallbackProfile is returned when every generation attempt fails, so
// the end-user flow is never blocked on the provider.
const fallbackProfile = `A design profile for a client seeking interior design assistance. The client is looking for professional guidance to transform their space. Preferences include a balanced aesthetic with functional considerations. The design should accommodate the client's needs while maintaining a cohesive style throughout the space.`

type profileOutput struct {
	ProfileSummary string `json:"profileSummary"`
}

// GenerateProfile synthesizes a customer profile from the intake
// questionnaire. It always returns a non-empty profile: after retries
// are exhausted the static fallback is used.
func (p *Provider) GenerateProfile(ctx context.Context, questionnaire map[string]string) string {
	input, err := json.MarshalIndent(questionnaire, "", "  ")
	if err != nil {
		slog.Error("failed to encode questionnaire for generation", "error", err)
		return fallbackProfile
	}

	var out profileOutput
	if err := p.generateJSON(ctx, profileSystemPrompt, string(input), &out); err != nil || out.ProfileSummary == "" {
		slog.Warn("customer profile generation failed, using fallback", "error", err)
		return fallbackProfile
	}
	return out.ProfileSummary
}
