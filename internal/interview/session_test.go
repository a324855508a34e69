package interview

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"crossexam/internal/errors"
	"crossexam/internal/models"
	"crossexam/internal/testhelpers"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oracleStep struct {
	reply string
	err   error
	// block delays the reply until the channel is closed.
	block chan struct{}
}

// stubOracle replays scripted steps in order and records every call.
type stubOracle struct {
	mu    sync.Mutex
	steps []oracleStep
	calls [][]openai.ChatCompletionMessage
}

func (o *stubOracle) push(reply string, err error) {
	o.mu.Lock()
	o.steps = append(o.steps, oracleStep{reply: reply, err: err})
	o.mu.Unlock()
}

func (o *stubOracle) pushBlocking(reply string) chan struct{} {
	block := make(chan struct{})
	o.mu.Lock()
	o.steps = append(o.steps, oracleStep{reply: reply, block: block})
	o.mu.Unlock()
	return block
}

func (o *stubOracle) StructuredCompletion(
	_ context.Context, messages []openai.ChatCompletionMessage,
) (string, error) {
	o.mu.Lock()
	o.calls = append(o.calls, slices.Clone(messages))
	if len(o.steps) == 0 {
		o.mu.Unlock()
		return "", errors.New("no scripted reply")
	}
	step := o.steps[0]
	o.steps = o.steps[1:]
	o.mu.Unlock()

	if step.block != nil {
		<-step.block
	}
	return step.reply, step.err
}

func (o *stubOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

func newTestSession(oracle Oracle) *Session {
	return NewSession(oracle, testhelpers.NewLogger(io.Discard))
}

func startActiveSession(t *testing.T, difficulty models.Difficulty) (*Session, *stubOracle) {
	t.Helper()
	oracle := &stubOracle{}
	oracle.push(validScenarioJSON, nil)
	session := newTestSession(oracle)
	require.NoError(t, session.Start(context.Background(), difficulty))
	return session, oracle
}

func TestSession_Start(t *testing.T) {
	for _, difficulty := range models.Difficulties() {
		t.Run(string(difficulty), func(t *testing.T) {
			session, _ := startActiveSession(t, difficulty)
			snapshot := session.Snapshot()

			require.Equal(t, StateActive, snapshot.State)
			require.Equal(t, difficulty, snapshot.Difficulty)
			require.Equal(t, models.PhaseRapport, snapshot.Phase)
			require.NotEmpty(t, snapshot.Transcript)
			require.NotNil(t, snapshot.Internal)
			require.Equal(t, models.InternalState{
				Truthfulness:  70,
				Stress:        10,
				Defensiveness: 20,
				Cooperation:   80,
				Memory:        90,
				Exposure:      5,
				LegalRisk:     0,
			}, *snapshot.Internal)

			// The transcript is seeded with the witness introduction.
			require.Len(t, snapshot.Transcript, 1)
			require.Equal(t, models.RoleWitness, snapshot.Transcript[0].Role)
			require.NotEmpty(t, snapshot.Transcript[0].Text)
			require.NotNil(t, snapshot.Transcript[0].State)

			// Jurisdiction surfaces in the interviewer-visible brief.
			require.NotNil(t, snapshot.Scenario)
			require.NotEmpty(t, snapshot.Scenario.Jurisdiction)
		})
	}
}

func TestSession_Start_failureLeavesUninitialized(t *testing.T) {
	oracle := &stubOracle{}
	oracle.push("", errors.New("rate limited"))
	oracle.push("not even json", nil)
	oracle.push(validScenarioJSON, nil)
	session := newTestSession(oracle)
	ctx := context.Background()

	// Generation failure.
	require.Error(t, session.Start(ctx, models.DifficultyBeginner))
	require.Equal(t, StateUninitialized, session.Snapshot().State)
	require.Empty(t, session.Snapshot().Transcript)

	// Shape failure is a distinguishable hard error.
	err := session.Start(ctx, models.DifficultyBeginner)
	require.ErrorIs(t, err, ErrMalformedScenario)
	require.Equal(t, StateUninitialized, session.Snapshot().State)

	// The operation stays retryable with no side effects persisted.
	require.NoError(t, session.Start(ctx, models.DifficultyBeginner))
	require.Equal(t, StateActive, session.Snapshot().State)
}

func TestSession_Start_invalidTransitions(t *testing.T) {
	session, _ := startActiveSession(t, models.DifficultyBeginner)
	err := session.Start(context.Background(), models.DifficultyBeginner)
	require.ErrorIs(t, err, ErrAlreadyStarted)

	require.ErrorIs(t, newTestSession(&stubOracle{}).Start(context.Background(), "impossible"), ErrUnknownDifficulty)
}

func TestSession_SubmitTurn(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyIntermediate)
	ctx := context.Background()

	questions := []string{
		"What did you do on March 3rd?",
		"Who approved the consulting invoices?",
		"Did you ever meet the Jakarta agent in person?",
	}
	for _, question := range questions {
		oracle.push(validTurnJSON, nil)
		require.NoError(t, session.SubmitTurn(ctx, question))
	}

	snapshot := session.Snapshot()
	// One intro plus a user/witness pair per turn.
	require.Len(t, snapshot.Transcript, 1+2*len(questions))
	require.Equal(t, models.PhaseProbing, snapshot.Phase)
	require.Equal(t, 65, snapshot.Internal.Truthfulness)

	// Witness messages carry the snapshot, user messages do not.
	for i, message := range snapshot.Transcript {
		if message.Role == models.RoleWitness {
			require.NotNil(t, message.State, "witness message %d", i)
		} else {
			require.Nil(t, message.State, "user message %d", i)
		}
	}
}

func TestSession_SubmitTurn_replaysFullContext(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyIntermediate)
	ctx := context.Background()

	oracle.push(validTurnJSON, nil)
	require.NoError(t, session.SubmitTurn(ctx, "First question?"))
	oracle.push(validTurnJSON, nil)
	require.NoError(t, session.SubmitTurn(ctx, "Second question?"))

	// Call 0 is scenario generation; calls 1 and 2 are turns.
	require.Equal(t, 3, oracle.callCount())
	first := oracle.calls[1]
	second := oracle.calls[2]

	// Each call is a continuation of the previous one, never a fresh request.
	require.Len(t, first, 3)  // system, intro, question
	require.Len(t, second, 5) // ... raw reply, next question
	for i := range first {
		require.Equal(t, first[i], second[i])
	}
	// The oracle sees its own raw reply replayed verbatim.
	require.Equal(t, openai.ChatMessageRoleAssistant, second[3].Role)
	require.Equal(t, validTurnJSON, second[3].Content)
	require.Equal(t, "Second question?", second[4].Content)
}

func TestSession_SubmitTurn_endInterviewCommand(t *testing.T) {
	for _, utterance := range []string{"end interview", "END INTERVIEW", " End Interview "} {
		t.Run(utterance, func(t *testing.T) {
			session, oracle := startActiveSession(t, models.DifficultyAdvanced)
			transcriptBefore := session.Snapshot().Transcript

			oracle.push(validReportJSON, nil)
			require.NoError(t, session.SubmitTurn(context.Background(), utterance))

			snapshot := session.Snapshot()
			require.Equal(t, StateConcluded, snapshot.State)
			require.NotNil(t, snapshot.Report)
			// The reserved command never enters the transcript.
			require.Equal(t, transcriptBefore, snapshot.Transcript)
		})
	}
}

func TestSession_SubmitTurn_shapeFailureFallsBack(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyCrisis)
	ctx := context.Background()

	before := session.Snapshot()

	oracle.push(`{"reply":"huh","phase":"bogus","state":{}}`, nil)
	require.NoError(t, session.SubmitTurn(ctx, "What happened to the ledgers?"))

	after := session.Snapshot()
	// Phase and internal state stay byte-for-byte identical.
	require.Equal(t, before.Phase, after.Phase)
	require.Equal(t, *before.Internal, *after.Internal)
	// Exactly one user message and one fallback witness message were appended.
	require.Len(t, after.Transcript, len(before.Transcript)+2)
	fallback := after.Transcript[len(after.Transcript)-1]
	require.Equal(t, models.RoleWitness, fallback.Role)
	require.Contains(t, fallback.Text, "trouble processing that question")
	require.Nil(t, fallback.State)

	// The session stays active and usable.
	oracle.push(validTurnJSON, nil)
	require.NoError(t, session.SubmitTurn(ctx, "Let me rephrase."))
	require.Equal(t, models.PhaseProbing, session.Snapshot().Phase)
}

func TestSession_SubmitTurn_generationFailureFallsBack(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyBeginner)

	oracle.push("", errors.New("connection reset"))
	require.NoError(t, session.SubmitTurn(context.Background(), "Walk me through your week."))

	snapshot := session.Snapshot()
	require.Equal(t, StateActive, snapshot.State)
	require.Len(t, snapshot.Transcript, 3)
	require.Contains(t, snapshot.Transcript[2].Text, "trouble processing that question")
}

func TestSession_SubmitTurn_invalidInput(t *testing.T) {
	session := newTestSession(&stubOracle{})
	require.ErrorIs(t, session.SubmitTurn(context.Background(), "hello?"), ErrNotActive)

	session, _ = startActiveSession(t, models.DifficultyBeginner)
	require.ErrorIs(t, session.SubmitTurn(context.Background(), "   "), ErrEmptyQuestion)
}

func TestSession_Conclude(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyIntermediate)
	ctx := context.Background()

	// A failed conclusion leaves the session active and retryable.
	oracle.push("", errors.New("timeout"))
	require.Error(t, session.Conclude(ctx))
	require.Equal(t, StateActive, session.Snapshot().State)
	require.Nil(t, session.Snapshot().Report)

	oracle.push(`{"timelineScore": 12}`, nil)
	require.ErrorIs(t, session.Conclude(ctx), ErrMalformedReport)
	require.Equal(t, StateActive, session.Snapshot().State)

	oracle.push(validReportJSON, nil)
	require.NoError(t, session.Conclude(ctx))
	snapshot := session.Snapshot()
	require.Equal(t, StateConcluded, snapshot.State)
	require.Equal(t, []int{72, 58, 64, 80}, snapshot.Report.Scores())
}

func TestSession_Conclude_idempotentInEffect(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyIntermediate)
	ctx := context.Background()

	oracle.push(validReportJSON, nil)
	require.NoError(t, session.Conclude(ctx))
	concluded := session.Snapshot()

	// Repeated conclusion attempts are rejected and alter nothing.
	require.ErrorIs(t, session.Conclude(ctx), ErrConcluded)
	require.ErrorIs(t, session.SubmitTurn(ctx, "one more thing"), ErrConcluded)

	snapshot := session.Snapshot()
	require.Equal(t, concluded.Report, snapshot.Report)
	require.Equal(t, concluded.Transcript, snapshot.Transcript)
}

func TestSession_busyFlagMutualExclusion(t *testing.T) {
	session, oracle := startActiveSession(t, models.DifficultyAdvanced)
	ctx := context.Background()

	block := oracle.pushBlocking(validTurnJSON)
	done := make(chan error, 1)
	go func() {
		done <- session.SubmitTurn(ctx, "Slow question?")
	}()

	// Wait for the in-flight turn to claim the busy flag.
	require.Eventually(t, func() bool {
		return session.Snapshot().Busy
	}, time.Second, time.Millisecond)

	// A second operation is rejected, never interleaved.
	require.ErrorIs(t, session.SubmitTurn(ctx, "Another question?"), ErrBusy)
	require.ErrorIs(t, session.Conclude(ctx), ErrBusy)

	close(block)
	require.NoError(t, <-done)

	snapshot := session.Snapshot()
	assert.False(t, snapshot.Busy)
	// Only the slow question and its reply made it into the transcript.
	assert.Len(t, snapshot.Transcript, 3)
}
