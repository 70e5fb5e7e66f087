package fdslack

import (
	"log/slog"

	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// messenger is the part of the Slack client the command handlers post with.
type messenger interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Handler struct {
	helpHandler    *HelpHandler
	priceHandler   *PriceHandler
	impliedHandler *ImpliedHandler
	logger         *slog.Logger
}

func NewHandler(defaults pricer.Request, logger *slog.Logger) *Handler {
	opts := []pricer.Option{pricer.WithLogger(logger)}
	return &Handler{
		helpHandler:    NewHelpHandler(),
		priceHandler:   NewPriceHandler(defaults, opts...),
		impliedHandler: NewImpliedHandler(defaults, opts...),
		logger:         logger,
	}
}

func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return nil
	}
	client.Ack(*evt.Request)
	return h.dispatch(data, client)
}

func (h *Handler) dispatch(cmd slack.SlashCommand, client messenger) error {
	h.logger.Info("slash command", "command", cmd.Command, "user", cmd.UserName, "text", cmd.Text)
	switch cmd.Command {
	case "/help":
		return h.helpHandler.HandleCommand(cmd, client)
	case "/fdprice":
		return h.priceHandler.HandleCommand(cmd, client)
	case "/fdiv":
		return h.impliedHandler.HandleCommand(cmd, client)
	}
	return nil
}
