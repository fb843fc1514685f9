package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForChatCount asks how many chats each agent should get per cycle.
func PromptForChatCount() (int, error) {
	var raw string
	prompt := &survey.Input{
		Message: "Chats per agent per cycle:",
		Help:    "Every agent gets this many chat attempts while the shared daily cap lasts.",
		Default: "1",
	}

	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		n, err := strconv.Atoi(strings.TrimSpace(val.(string)))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < 1 {
			return fmt.Errorf("at least one chat per agent")
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("chat count: %w", err)
	}
	return n, nil
}

// PromptForProxyUse asks whether to route accounts through proxy.txt.
func PromptForProxyUse() (bool, error) {
	var use bool
	prompt := &survey.Confirm{
		Message: "Route requests through proxies from proxy.txt?",
		Default: false,
	}

	err := survey.AskOne(prompt, &use)
	return use, err
}
