package mocks

import "context"

type MockAnswerGenerator struct {
	GenerateAnswerFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	return m.GenerateAnswerFunc(ctx, prompt)
}
