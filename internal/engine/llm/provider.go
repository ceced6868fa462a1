package llm

import (
	"context"
	"fmt"
	"strings"
)

type Provider interface {
	Generate(ctx context.Context, question string, passages []string) (string, error)
	ModelName() string
}

// BuildPrompt assembles the user-facing prompt. With no passages the model is
// told explicitly that nothing was retrieved, so it answers from general
// knowledge instead of hallucinating citations.
func BuildPrompt(question string, passages []string) string {
	if len(passages) == 0 {
		return fmt.Sprintf("No relevant documents were found in the knowledge base for this question. Say so briefly, then answer from general knowledge if you can.\n\nUser Question: %s", question)
	}

	contextText := strings.Join(passages, "\n")
	return fmt.Sprintf("Context:\n%s\n\nUser Question: %s", contextText, question)
}
