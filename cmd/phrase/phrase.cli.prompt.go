package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrPromptAborted is returned when the user interrupts a prompt
var ErrPromptAborted = errors.New(ErrMsgPromptAborted)

// Prompter asks the user for the value of a key. It abstracts the terminal
// so render can be tested without one.
type Prompter interface {
	Input(ctx context.Context, key string) (string, error)
}

// newPrompter is swapped out by tests
var newPrompter = func() Prompter {
	return surveyPrompter{}
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: fmt.Sprintf(PromptMessageFormat, key),
		Help:    fmt.Sprintf(PromptHelpFormat, key),
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrPromptAborted
		}
		return "", err
	}
	return out, nil
}

// promptUnbound asks for every key still unbound, in declaration order
func promptUnbound(ctx context.Context, prompter Prompter, keys []string, bind func(key, value string) error) error {
	for _, key := range keys {
		value, err := prompter.Input(ctx, key)
		if err != nil {
			return err
		}
		if err := bind(key, value); err != nil {
			return err
		}
	}
	return nil
}
