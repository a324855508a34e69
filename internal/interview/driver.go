package interview

import (
	"context"
	"encoding/json"
	"log/slog"

	"crossexam/internal/errors"
	"crossexam/internal/models"

	"github.com/sashabaranov/go-openai"
)

// ErrMalformedReply signals that the oracle's turn reply did not carry witness
// text, a known phase, and seven well-formed state fields. The session
// degrades to a fallback message instead of failing hard.
var ErrMalformedReply = errors.NewSentinel("turn reply did not match the expected shape")

// turnReply is one validated witness turn.
type turnReply struct {
	Reply string
	Phase models.InterviewPhase
	State models.InternalState
}

// wireTurnReply uses pointer fields so that a field the oracle omitted is
// distinguishable from a zero value.
type wireTurnReply struct {
	Reply *string        `json:"reply"`
	Phase *string        `json:"phase"`
	State *wireturnState `json:"state"`
}

type wireturnState struct {
	Truthfulness  *int     `json:"truthfulness"`
	Stress        *int     `json:"stress"`
	Defensiveness *int     `json:"defensiveness"`
	Cooperation   *int     `json:"cooperation"`
	Memory        *int     `json:"memory"`
	Exposure      *int     `json:"exposure"`
	LegalRisk     *float64 `json:"legalRisk"`
}

// driveTurn sends the accumulated history to the oracle and returns the raw
// reply text along with its validated contents. The raw text is what gets
// replayed to the oracle on the next turn so the conversation stays a
// continuation of what the model last saw.
func driveTurn(ctx context.Context, oracle Oracle, history []openai.ChatCompletionMessage) (string, turnReply, error) {
	raw, err := oracle.StructuredCompletion(ctx, history)
	if err != nil {
		return "", turnReply{}, errors.Wrap(err, "drive turn")
	}
	reply, err := parseTurnReply(raw)
	if err != nil {
		return "", turnReply{}, err
	}
	return raw, reply, nil
}

func parseTurnReply(raw string) (turnReply, error) {
	var wire wireTurnReply
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return turnReply{}, errors.Wrap(ErrMalformedReply, "unmarshal turn reply", errors.SlogError(err))
	}
	if wire.Reply == nil || *wire.Reply == "" {
		return turnReply{}, errors.Wrap(ErrMalformedReply, "missing reply text")
	}
	if wire.Phase == nil {
		return turnReply{}, errors.Wrap(ErrMalformedReply, "missing phase")
	}
	phase := models.InterviewPhase(*wire.Phase)
	if !phase.Valid() {
		return turnReply{}, errors.Wrap(ErrMalformedReply, "unknown phase", slog.String("phase", *wire.Phase))
	}
	state, err := parseInternalState(wire.State)
	if err != nil {
		return turnReply{}, err
	}

	return turnReply{
		Reply: *wire.Reply,
		Phase: phase,
		State: state,
	}, nil
}

func parseInternalState(wire *wireturnState) (models.InternalState, error) {
	if wire == nil {
		return models.InternalState{}, errors.Wrap(ErrMalformedReply, "missing state")
	}
	intFields := map[string]*int{
		"truthfulness":  wire.Truthfulness,
		"stress":        wire.Stress,
		"defensiveness": wire.Defensiveness,
		"cooperation":   wire.Cooperation,
		"memory":        wire.Memory,
		"exposure":      wire.Exposure,
	}
	for field, value := range intFields {
		if value == nil {
			return models.InternalState{}, errors.Wrap(ErrMalformedReply, "missing state field", slog.String("field", field))
		}
	}
	if wire.LegalRisk == nil {
		return models.InternalState{}, errors.Wrap(ErrMalformedReply, "missing state field", slog.String("field", "legalRisk"))
	}
	state := models.InternalState{
		Truthfulness:  *wire.Truthfulness,
		Stress:        *wire.Stress,
		Defensiveness: *wire.Defensiveness,
		Cooperation:   *wire.Cooperation,
		Memory:        *wire.Memory,
		Exposure:      *wire.Exposure,
		LegalRisk:     *wire.LegalRisk,
	}
	if !state.InBounds() {
		return models.InternalState{}, errors.Wrap(ErrMalformedReply, "state out of bounds")
	}
	return state, nil
}
