package fdslack

import (
	"github.com/slack-go/slack"
)

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) HandleCommand(cmd slack.SlashCommand, client messenger) error {
	_, _, err := client.PostMessage(cmd.ChannelID, slack.MsgOptionText(helpText, false))
	return err
}

const helpText = "Available commands:\n" +
	"/help - Show this help message\n" +
	"/fdprice <call|put|straddle> <spot> <strike> <rate> <dividend> <vol> <years> [grid] [american] - Price an option on the PDE grid\n" +
	"/fdiv <call|put|straddle> <spot> <strike> <rate> <dividend> <years> <price> [american] - Implied volatility from a quoted price"
