package domain

import "context"

// AnswerGenerator produces a free-form answer for questions the rule-based
// assistant cannot handle from the catalog.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}
