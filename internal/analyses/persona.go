package analyses

import (
	"context"

	"go.uber.org/zap"

	"resumeforge/internal/llm"
	"resumeforge/internal/prompts"
	"resumeforge/internal/shared/telemetry"
)

const personaTemperature = 0.2

// GeneratePersona asks the generator for an ideal-candidate profile of role.
// Any failure degrades to the empty persona so the analysis can continue.
func GeneratePersona(ctx context.Context, gen llm.Generator, role string, logger *zap.Logger) Persona {
	logger = telemetry.OrNop(logger)

	prompt, err := prompts.Render(prompts.Persona, struct{ Role string }{Role: role})
	if err != nil {
		logger.Error("persona prompt render failed", zap.Error(err))
		return Persona{}
	}

	out, err := gen.Generate(ctx, llm.Request{
		Operation:   "persona",
		Prompt:      prompt,
		Tier:        llm.TierPro,
		Temperature: personaTemperature,
		JSON:        true,
	})
	if err != nil {
		logger.Warn("persona generation failed, continuing with empty persona", zap.String("role", role), zap.Error(err))
		return Persona{}
	}

	var persona Persona
	if err := llm.DecodeObject("persona", out, &persona); err != nil {
		logger.Warn("persona response malformed, continuing with empty persona",
			zap.String("role", role),
			zap.String("preview", telemetry.Truncate(out, 200)),
			zap.Error(err),
		)
		return Persona{}
	}
	return persona
}
