package interview

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Oracle produces structured JSON completions for a message history. It is
// satisfied by [crossexam/internal/ai.Client]; tests substitute fakes. The
// oracle is treated as an opaque nondeterministic function, so every reply is
// validated before it is applied regardless of how the prompt constrained it.
type Oracle interface {
	StructuredCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)

func (f OracleFunc) StructuredCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return f(ctx, messages)
}
