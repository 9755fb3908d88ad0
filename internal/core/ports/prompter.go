package ports

import "context"

// Prompter asks the user for free-form instructions.
//
//go:generate mockgen -source=prompter.go -destination=mocks/mock_prompter.go -package=mocks
type Prompter interface {
	// Prompt blocks until the user submits text, which may be empty.
	// It returns domain.ErrPromptCancelled when the user dismisses the prompt.
	Prompt(ctx context.Context, title string) (string, error)
}
