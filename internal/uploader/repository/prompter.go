package repository

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// TerminalPrompter asks for credentials on the terminal.
type TerminalPrompter struct{}

func (TerminalPrompter) PromptAuthCode(reason string) (string, error) {
	prompt := promptui.Prompt{
		Label: reason,
	}
	code, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

// PromptValue asks for a value, showing current as the default. Secret
// values are masked.
func (TerminalPrompter) PromptValue(label, current string, secret bool) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: !secret,
	}
	if secret {
		prompt.Mask = '*'
		prompt.Default = ""
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if secret && value == "" {
		return current, nil
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question.
func (TerminalPrompter) Confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return false
	}
	return strings.ToLower(result) == "y"
}
