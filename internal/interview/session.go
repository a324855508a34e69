package interview

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"crossexam/internal/errors"
	"crossexam/internal/models"

	"github.com/sashabaranov/go-openai"
)

// State is the lifecycle state of one interview session.
type State string

const (
	// StateUninitialized means no difficulty has been chosen yet.
	StateUninitialized State = "uninitialized"
	// StateActive means the interview is live and accepts user turns.
	StateActive State = "active"
	// StateConcluded means the final report exists; only a reset remains.
	StateConcluded State = "concluded"
)

var (
	ErrBusy              = errors.NewSentinel("another operation is in flight")
	ErrAlreadyStarted    = errors.NewSentinel("session already started")
	ErrNotActive         = errors.NewSentinel("session is not active")
	ErrConcluded         = errors.NewSentinel("session already concluded")
	ErrUnknownDifficulty = errors.NewSentinel("unknown difficulty tier")
	ErrEmptyQuestion     = errors.NewSentinel("question must not be empty")
)

// EndInterviewCommand is the reserved utterance that concludes the interview
// instead of being asked as a question. Matched case-insensitively.
const EndInterviewCommand = "end interview"

const fallbackWitnessReply = "I'm sorry, I'm having trouble processing that question. Could you rephrase it?"

// Session owns the scenario, transcript, phase, and hidden witness state for
// one interview. All mutation goes through Start, SubmitTurn, and Conclude;
// the view reads through Snapshot. Turn-producing operations are serialized
// by the busy flag: a second operation arriving while one is in flight is
// rejected with ErrBusy, never interleaved.
type Session struct {
	mu     sync.Mutex
	busy   bool
	oracle Oracle
	logger *slog.Logger

	state      State
	difficulty models.Difficulty
	scenario   *models.Scenario
	phase      models.InterviewPhase
	internal   models.InternalState
	transcript []models.Message
	report     *models.FinalReport

	// history is the message list replayed to the oracle on every turn. The
	// underlying model conversation is never reset mid-session; each call is a
	// continuation of what the model last saw.
	history []openai.ChatCompletionMessage
}

// NewSession creates an uninitialized session driven by the given oracle.
func NewSession(oracle Oracle, logger *slog.Logger) *Session {
	return &Session{
		oracle: oracle,
		logger: logger.With("source", "interview.Session"),
		state:  StateUninitialized,
	}
}

// begin checks the lifecycle state and claims the busy flag.
func (s *Session) begin(required State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != required {
		switch {
		case required == StateUninitialized:
			return ErrAlreadyStarted
		case s.state == StateConcluded:
			return ErrConcluded
		default:
			return ErrNotActive
		}
	}
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Start generates a scenario for the difficulty tier and activates the
// session. On any failure the session stays uninitialized with no side
// effects, so the caller can retry.
func (s *Session) Start(ctx context.Context, difficulty models.Difficulty) error {
	if !difficulty.Valid() {
		return errors.Wrap(ErrUnknownDifficulty, "start session", slog.String("difficulty", string(difficulty)))
	}
	if err := s.begin(StateUninitialized); err != nil {
		return err
	}
	defer s.end()

	scenario, err := generateScenario(ctx, s.oracle, difficulty)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	baseline := models.BaselineInternalState()
	s.difficulty = difficulty
	s.scenario = scenario
	s.phase = models.PhaseRapport
	s.internal = baseline
	s.transcript = []models.Message{{
		Role:  models.RoleWitness,
		Text:  scenario.WitnessIntroduction,
		Phase: s.phase,
		State: &baseline,
	}}
	s.history = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: witnessSystemPrompt(scenario, difficulty)},
		{Role: openai.ChatMessageRoleAssistant, Content: scenario.WitnessIntroduction},
	}
	s.state = StateActive
	return nil
}

// SubmitTurn asks the witness one question. The question is appended to the
// transcript before the oracle round trip so the view reflects it
// immediately. A failed or malformed reply degrades to a fallback witness
// message and leaves phase and internal state untouched; the session stays
// active and usable.
func (s *Session) SubmitTurn(ctx context.Context, text string) error {
	question := strings.TrimSpace(text)
	if question == "" {
		return ErrEmptyQuestion
	}
	// Reserved command: it never enters the transcript, conclusion runs instead.
	if strings.EqualFold(question, EndInterviewCommand) {
		return s.Conclude(ctx)
	}

	if err := s.begin(StateActive); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.transcript = append(s.transcript, models.Message{Role: models.RoleUser, Text: question})
	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})
	history := slices.Clone(s.history)
	s.mu.Unlock()

	raw, reply, err := driveTurn(ctx, s.oracle, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "turn failed, falling back", errors.SlogError(err))
		s.transcript = append(s.transcript, models.Message{Role: models.RoleWitness, Text: fallbackWitnessReply})
		return nil
	}

	snapshot := reply.State
	s.transcript = append(s.transcript, models.Message{
		Role:  models.RoleWitness,
		Text:  reply.Reply,
		Phase: reply.Phase,
		State: &snapshot,
	})
	s.phase = reply.Phase
	s.internal = reply.State
	// Replay the raw reply, not the parsed one, so the oracle sees its own words.
	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: raw,
	})
	return nil
}

// Conclude asks the oracle to grade the interview and moves the session to
// its terminal state. On failure the session stays active so the caller can
// retry; no partial report is ever stored.
func (s *Session) Conclude(ctx context.Context) error {
	if err := s.begin(StateActive); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	scenario := s.scenario
	transcript := slices.Clone(s.transcript)
	s.mu.Unlock()

	report, err := generateReport(ctx, s.oracle, scenario, transcript)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.state = StateConcluded
	return nil
}

// ScenarioBrief is the interviewer-visible part of the scenario. The hidden
// ground truth and risk nodes never leave the session.
type ScenarioBrief struct {
	InvestigationType  string
	CompanyBackground  string
	Jurisdiction       string
	RegulatoryExposure models.RegulatoryExposure
	WitnessRole        string
	WitnessArchetype   string
	DocumentUniverse   string
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	State      State
	Difficulty models.Difficulty
	Scenario   *ScenarioBrief
	Phase      models.InterviewPhase
	Internal   *models.InternalState
	Transcript []models.Message
	Busy       bool
	Report     *models.FinalReport
}

// Snapshot returns a copy of the renderable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		State:      s.state,
		Difficulty: s.difficulty,
		Phase:      s.phase,
		Transcript: slices.Clone(s.transcript),
		Busy:       s.busy,
		Report:     s.report,
	}
	if s.scenario != nil {
		snapshot.Scenario = &ScenarioBrief{
			InvestigationType:  s.scenario.InvestigationType,
			CompanyBackground:  s.scenario.CompanyBackground,
			Jurisdiction:       s.scenario.Jurisdiction,
			RegulatoryExposure: s.scenario.RegulatoryExposure,
			WitnessRole:        s.scenario.WitnessRole,
			WitnessArchetype:   s.scenario.WitnessArchetype,
			DocumentUniverse:   s.scenario.DocumentUniverse,
		}
	}
	if s.state != StateUninitialized {
		internal := s.internal
		snapshot.Internal = &internal
	}
	return snapshot
}
