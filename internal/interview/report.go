package interview

import (
	"context"
	"encoding/json"
	"log/slog"

	"crossexam/internal/errors"
	"crossexam/internal/models"

	"github.com/sashabaranov/go-openai"
)

// ErrMalformedReport signals that the oracle's evaluation reply did not carry
// four bounded scores, two narrative fields, and two string lists. No partial
// or garbled report is ever exposed; the session stays active for a retry.
var ErrMalformedReport = errors.NewSentinel("final report did not match the expected shape")

// generateReport asks the oracle to grade the interview. The request is
// assembled deterministically from the transcript and scenario, hidden parts
// included; all scoring is delegated to the oracle.
func generateReport(
	ctx context.Context,
	oracle Oracle,
	scenario *models.Scenario,
	transcript []models.Message,
) (*models.FinalReport, error) {
	raw, err := oracle.StructuredCompletion(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: reportEvaluatorPrompt},
		{Role: openai.ChatMessageRoleUser, Content: reportRequest(scenario, transcript)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}
	report, err := parseReport(raw)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// wireReport uses pointer fields so that a field the oracle omitted is
// distinguishable from a zero value.
type wireReport struct {
	TimelineScore         *int      `json:"timelineScore"`
	ContradictionScore    *int      `json:"contradictionScore"`
	RiskAwarenessScore    *int      `json:"riskAwarenessScore"`
	InterviewControlScore *int      `json:"interviewControlScore"`
	BehavioralAnalysis    *string   `json:"behavioralAnalysis"`
	LegalExposureAnalysis *string   `json:"legalExposureAnalysis"`
	MissedFollowUps       *[]string `json:"missedFollowUps"`
	ImprovedPaths         *[]string `json:"improvedPaths"`
}

func parseReport(raw string) (*models.FinalReport, error) {
	var wire wireReport
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, errors.Wrap(ErrMalformedReport, "unmarshal report", errors.SlogError(err))
	}

	scores := map[string]*int{
		"timelineScore":         wire.TimelineScore,
		"contradictionScore":    wire.ContradictionScore,
		"riskAwarenessScore":    wire.RiskAwarenessScore,
		"interviewControlScore": wire.InterviewControlScore,
	}
	for field, score := range scores {
		if score == nil {
			return nil, errors.Wrap(ErrMalformedReport, "missing score", slog.String("field", field))
		}
		if *score < 0 || *score > 100 {
			return nil, errors.Wrap(ErrMalformedReport, "score out of bounds",
				slog.String("field", field), slog.Int("score", *score))
		}
	}
	if wire.BehavioralAnalysis == nil || *wire.BehavioralAnalysis == "" {
		return nil, errors.Wrap(ErrMalformedReport, "missing behavioral analysis")
	}
	if wire.LegalExposureAnalysis == nil || *wire.LegalExposureAnalysis == "" {
		return nil, errors.Wrap(ErrMalformedReport, "missing legal exposure analysis")
	}
	if wire.MissedFollowUps == nil {
		return nil, errors.Wrap(ErrMalformedReport, "missing missed follow-ups")
	}
	if wire.ImprovedPaths == nil {
		return nil, errors.Wrap(ErrMalformedReport, "missing improved paths")
	}

	return &models.FinalReport{
		TimelineScore:         *wire.TimelineScore,
		ContradictionScore:    *wire.ContradictionScore,
		RiskAwarenessScore:    *wire.RiskAwarenessScore,
		InterviewControlScore: *wire.InterviewControlScore,
		BehavioralAnalysis:    *wire.BehavioralAnalysis,
		LegalExposureAnalysis: *wire.LegalExposureAnalysis,
		MissedFollowUps:       *wire.MissedFollowUps,
		ImprovedPaths:         *wire.ImprovedPaths,
	}, nil
}
