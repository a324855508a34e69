package interview

import (
	"fmt"
	"strings"

	"crossexam/internal/models"
)

// The witness simulation is driven entirely through prompts. The model is the
// single source of truth for scenario content, witness behavior, and scoring;
// this package only assembles requests and validates the replies.

const scenarioArchitectPrompt = `You are the scenario architect for a corporate-investigation interview trainer. You design realistic internal-investigation scenarios in which a trainee interviewer questions a single witness played by an AI.

Respond with a single JSON object and nothing else, using exactly these keys:
{
  "investigationType": string,       // e.g. "FCPA bribery probe", "revenue recognition fraud"
  "companyBackground": string,       // two or three sentences about the company
  "jurisdiction": string,            // governing jurisdiction and regulator
  "regulatoryExposure": string,      // one of "low", "medium", "high"
  "witnessRole": string,             // the witness's job title and department
  "witnessArchetype": string,        // e.g. "loyal deputy", "nervous bystander"
  "witnessIntroduction": string,     // the witness's opening words to the interviewer, in first person
  "documentUniverse": string,        // what documents exist in the matter
  "hiddenGroundTruth": string,       // what actually happened; never revealed to the interviewer
  "keyRiskNodes": [string]           // facts the witness will protect; never revealed to the interviewer
}`

func scenarioRequest(difficulty models.Difficulty) string {
	guidance := map[models.Difficulty]string{
		models.DifficultyBeginner:     "The witness is cooperative and the misconduct is simple. A first-time interviewer should be able to reconstruct it.",
		models.DifficultyIntermediate: "The witness shades the truth under pressure and the misconduct spans several months of records.",
		models.DifficultyAdvanced:     "The witness is evasive and personally exposed. Contradictions only surface through careful sequencing.",
		models.DifficultyCrisis:       "An active regulatory crisis. The witness is hostile, coached by counsel, and the ground truth implicates senior management.",
	}
	return fmt.Sprintf("Generate a complete interview scenario at the %q difficulty tier. %s", difficulty, guidance[difficulty])
}

func witnessSystemPrompt(scenario *models.Scenario, difficulty models.Difficulty) string {
	return fmt.Sprintf(`You are role-playing the witness in a corporate-investigation interview training session at the %q difficulty tier.

Scenario:
- Investigation: %s
- Company: %s
- Jurisdiction: %s
- Regulatory exposure: %s
- Your role: %s
- Your archetype: %s
- Documents in the matter: %s
- What actually happened (known only to you): %s
- Facts you protect (known only to you): %s

You simulate the witness's hidden psychological and legal condition with seven numeric attributes, each between 0 and 100: truthfulness, stress, defensiveness, cooperation, memory, exposure, legalRisk. The session starts from truthfulness 70, stress 10, defensiveness 20, cooperation 80, memory 90, exposure 5, legalRisk 0. Adjust them plausibly after every question.

You also track the interview phase: one of "rapport", "probing", "confrontation", "closing". Start in "rapport" and advance it as the questioning develops.

For every interviewer question, respond with a single JSON object and nothing else:
{
  "reply": string,   // what the witness says, in character
  "phase": string,   // the current phase
  "state": { "truthfulness": int, "stress": int, "defensiveness": int, "cooperation": int, "memory": int, "exposure": int, "legalRisk": number }
}`,
		difficulty,
		scenario.InvestigationType,
		scenario.CompanyBackground,
		scenario.Jurisdiction,
		scenario.RegulatoryExposure,
		scenario.WitnessRole,
		scenario.WitnessArchetype,
		scenario.DocumentUniverse,
		scenario.HiddenGroundTruth,
		strings.Join(scenario.KeyRiskNodes, "; "),
	)
}

const reportEvaluatorPrompt = `You are the evaluator for a corporate-investigation interview trainer. You grade the interviewer's performance against the scenario's hidden ground truth and the witness's hidden state trajectory.

Respond with a single JSON object and nothing else, using exactly these keys:
{
  "timelineScore": int,              // 0-100, how well the interviewer reconstructed the timeline
  "contradictionScore": int,         // 0-100, how well contradictions were identified
  "riskAwarenessScore": int,         // 0-100, awareness of legal-risk escalation
  "interviewControlScore": int,      // 0-100, control of pacing and phases
  "behavioralAnalysis": string,      // how the witness's state evolved and why
  "legalExposureAnalysis": string,   // what legal exposure the interview surfaced or missed
  "missedFollowUps": [string],       // questions the interviewer should have asked
  "improvedPaths": [string]          // better lines of questioning
}`

// reportRequest assembles the evaluation request deterministically from the
// scenario and transcript, including the parts hidden from the interviewer.
func reportRequest(scenario *models.Scenario, transcript []models.Message) string {
	var b strings.Builder
	b.WriteString("Scenario ground truth:\n")
	fmt.Fprintf(&b, "- Investigation: %s\n", scenario.InvestigationType)
	fmt.Fprintf(&b, "- Jurisdiction: %s\n", scenario.Jurisdiction)
	fmt.Fprintf(&b, "- Hidden ground truth: %s\n", scenario.HiddenGroundTruth)
	fmt.Fprintf(&b, "- Key risk nodes: %s\n", strings.Join(scenario.KeyRiskNodes, "; "))
	b.WriteString("\nTranscript:\n")
	for _, message := range transcript {
		switch message.Role {
		case models.RoleUser:
			fmt.Fprintf(&b, "Interviewer: %s\n", message.Text)
		case models.RoleWitness:
			fmt.Fprintf(&b, "Witness: %s\n", message.Text)
			if message.State != nil {
				fmt.Fprintf(&b,
					"  [phase=%s truthfulness=%d stress=%d defensiveness=%d cooperation=%d memory=%d exposure=%d legalRisk=%g]\n",
					message.Phase, message.State.Truthfulness, message.State.Stress, message.State.Defensiveness,
					message.State.Cooperation, message.State.Memory, message.State.Exposure, message.State.LegalRisk)
			}
		}
	}
	b.WriteString("\nGrade the interviewer's performance.")
	return b.String()
}
