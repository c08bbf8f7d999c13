// Package interactive provides the survey-backed stage menu and
// confirmation prompts for driving the pipeline from a terminal.
package interactive

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Option is one pipeline stage offered in the interactive menu.
type Option struct {
	Label  string
	Detail string
	Run    func() error
}

// ErrExit is returned when the operator chooses to leave the menu, or
// cancels the prompt with Ctrl-C.
var ErrExit = errors.New("exit requested")

const exitChoice = "🚪 Exit"

// formatChoices renders the menu entries the way survey displays them,
// with the exit entry always last.
func formatChoices(options []Option) []string {
	choices := make([]string, 0, len(options)+1)
	for _, opt := range options {
		choices = append(choices, fmt.Sprintf("%s - %s", opt.Label, opt.Detail))
	}

	return append(choices, exitChoice)
}

// Run displays the stage menu and executes the selected stage. Selecting
// the exit entry or cancelling the prompt returns ErrExit.
func Run(options []Option) error {
	choices := formatChoices(options)

	var selected string
	prompt := &survey.Select{
		Message:  "Which pipeline stage would you like to run?",
		Options:  choices,
		PageSize: len(choices),
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return ErrExit
	}

	for i, choice := range choices[:len(choices)-1] {
		if choice == selected {
			return options[i].Run()
		}
	}

	return ErrExit
}

// PauseForEnter blocks until the operator presses Enter, so stage output
// stays on screen before the menu redraws.
func PauseForEnter() {
	fmt.Println("\nPress Enter to return to the menu...")
	_, _ = fmt.Scanln()
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)

	return confirmed
}
