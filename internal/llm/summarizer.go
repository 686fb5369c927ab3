package llm

import (
	"context"
	"errors"
	"strings"
)

// DocumentPlaceholder marks where the document is substituted into the
// summarization instructions.
const DocumentPlaceholder = "{0}"

var ErrMissingInstructions = errors.New("summarization instructions are required")

// CompletionSummarizer summarizes through a chat completer: the formatted
// instructions are sent as the system message and the document as the user
// message.
type CompletionSummarizer struct {
	completer    Completer
	instructions string
}

var _ Summarizer = (*CompletionSummarizer)(nil)

func NewCompletionSummarizer(completer Completer, instructions string) (*CompletionSummarizer, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, ErrMissingInstructions
	}
	return &CompletionSummarizer{completer: completer, instructions: instructions}, nil
}

func FormatInstructions(instructions, document string) string {
	return strings.ReplaceAll(instructions, DocumentPlaceholder, document)
}

func (s *CompletionSummarizer) Summarize(ctx context.Context, document string) (string, error) {
	return s.completer.Complete(ctx, CompletionRequest{
		System: FormatInstructions(s.instructions, document),
		Prompt: document,
	})
}
