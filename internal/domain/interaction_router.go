package domain

import (
	"fmt"
	"strings"

	"github.com/sakakuai/askbot/pkg/discord"
)

const helpContent = "Use `/ask question:<text> [private:true]` to ask a question. " +
	"Use `/help` to see this message."

const askUsageContent = "Usage: /ask question:<text> [private:true]"

const invalidInputContent = "Invalid input: the question is too long."

// deferredTask is the in-memory work order produced for an ask command. It
// lives only for the duration of the background completion and carries the
// single-use token required to deliver the follow-up.
type deferredTask struct {
	question         string
	ephemeral        bool
	applicationID    string
	interactionToken string
}

// routeInteraction maps a decoded interaction to its response and, for the
// ask command, the deferred task to run after the acknowledgement. It is
// pure: no I/O, no mutation of the interaction, identical output for
// identical input.
func routeInteraction(interaction *discord.Interaction, maxQuestionLength int) (*discord.InteractionResponse, *deferredTask) {
	if interaction.Type == discord.InteractionTypePing {
		return &discord.InteractionResponse{Type: discord.ResponsePong}, nil
	}

	if interaction.Type == discord.InteractionTypeApplicationCommand &&
		interaction.Data != nil && interaction.Data.Name != "" {
		name := interaction.Data.Name

		if strings.EqualFold(name, "help") {
			return ephemeralMessage(helpContent), nil
		}

		if strings.EqualFold(name, "ask") {
			return routeAsk(interaction, maxQuestionLength)
		}

		return ephemeralMessage(fmt.Sprintf("Unknown command: %s", name)), nil
	}

	return ephemeralMessage("Unsupported interaction type"), nil
}

func routeAsk(interaction *discord.Interaction, maxQuestionLength int) (*discord.InteractionResponse, *deferredTask) {
	options := interaction.Data.Options

	question := strings.TrimSpace(stringValue(firstOption(options, "question")))
	if question == "" {
		return ephemeralMessage(askUsageContent), nil
	}

	if maxQuestionLength > 0 && len([]rune(question)) > maxQuestionLength {
		return ephemeralMessage(invalidInputContent), nil
	}

	private := truthy(firstOption(options, "private"))

	response := &discord.InteractionResponse{Type: discord.ResponseDeferredChannelMessage}
	if private {
		response.Data = &discord.ResponseData{Flags: discord.FlagEphemeral}
	}

	task := &deferredTask{
		question:         question,
		ephemeral:        private,
		applicationID:    interaction.ApplicationID,
		interactionToken: interaction.Token,
	}

	return response, task
}

// firstOption returns the value of the first option with the given name.
// Option names are not guaranteed unique in the input; the first occurrence
// wins.
func firstOption(options []discord.CommandOption, name string) any {
	for _, option := range options {
		if option.Name == name {
			return option.Value
		}
	}

	return nil
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return ""
}

// truthy tolerates the transport's loose typing of boolean options: both
// the boolean true and the string "true" count.
func truthy(value any) bool {
	switch t := value.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}

	return false
}

func ephemeralMessage(content string) *discord.InteractionResponse {
	return &discord.InteractionResponse{
		Type: discord.ResponseChannelMessage,
		Data: &discord.ResponseData{
			Content: content,
			Flags:   discord.FlagEphemeral,
		},
	}
}
