package interview

import (
	"context"
	"encoding/json"
	"log/slog"

	"crossexam/internal/errors"
	"crossexam/internal/models"

	"github.com/sashabaranov/go-openai"
)

// ErrMalformedScenario signals that the oracle's scenario reply did not parse
// into the expected shape. No partial scenario is ever accepted; the caller
// stays in its prior state and can retry.
var ErrMalformedScenario = errors.NewSentinel("scenario did not match the expected shape")

// GenerateScenario asks the oracle for a scenario outside of any session. The
// CLI uses this to preview scenario quality across the difficulty tiers.
func GenerateScenario(ctx context.Context, oracle Oracle, difficulty models.Difficulty) (*models.Scenario, error) {
	if !difficulty.Valid() {
		return nil, errors.Wrap(ErrUnknownDifficulty, "validate difficulty", slog.String("difficulty", string(difficulty)))
	}
	return generateScenario(ctx, oracle, difficulty)
}

// generateScenario asks the oracle for a fully populated scenario at the given
// difficulty tier. This is a one-shot request; the witness conversation gets
// its own message history seeded from the result.
func generateScenario(ctx context.Context, oracle Oracle, difficulty models.Difficulty) (*models.Scenario, error) {
	raw, err := oracle.StructuredCompletion(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: scenarioArchitectPrompt},
		{Role: openai.ChatMessageRoleUser, Content: scenarioRequest(difficulty)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate scenario", slog.String("difficulty", string(difficulty)))
	}
	scenario, err := parseScenario(raw)
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

func parseScenario(raw string) (*models.Scenario, error) {
	var scenario models.Scenario
	if err := json.Unmarshal([]byte(raw), &scenario); err != nil {
		return nil, errors.Wrap(ErrMalformedScenario, "unmarshal scenario", errors.SlogError(err))
	}

	required := map[string]string{
		"investigationType":   scenario.InvestigationType,
		"companyBackground":   scenario.CompanyBackground,
		"jurisdiction":        scenario.Jurisdiction,
		"witnessRole":         scenario.WitnessRole,
		"witnessArchetype":    scenario.WitnessArchetype,
		"witnessIntroduction": scenario.WitnessIntroduction,
		"documentUniverse":    scenario.DocumentUniverse,
		"hiddenGroundTruth":   scenario.HiddenGroundTruth,
	}
	for field, value := range required {
		if value == "" {
			return nil, errors.Wrap(ErrMalformedScenario, "missing scenario field", slog.String("field", field))
		}
	}
	if !scenario.RegulatoryExposure.Valid() {
		return nil, errors.Wrap(ErrMalformedScenario, "invalid regulatory exposure",
			slog.String("regulatoryExposure", string(scenario.RegulatoryExposure)))
	}
	if len(scenario.KeyRiskNodes) == 0 {
		return nil, errors.Wrap(ErrMalformedScenario, "missing scenario field", slog.String("field", "keyRiskNodes"))
	}

	return &scenario, nil
}
