// Package fdslack serves the pricer over Slack slash commands in socket
// mode.
package fdslack

import (
	"context"
	"log/slog"

	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
	logger       *slog.Logger
}

// NewSlackBot connects with an app-level token for socket mode and a bot
// token for posting. defaults supplies the solver settings of every command.
func NewSlackBot(appToken, botToken string, defaults pricer.Request, logger *slog.Logger) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(logger.Enabled(context.Background(), slog.LevelDebug)),
		socketmode.OptionLog(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(defaults, logger),
		logger:       logger,
	}
}

// Start handles slash commands until ctx is done or the connection fails.
func (sb *SlackBot) Start(ctx context.Context) error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				if err := sb.eventHandler.Handle(&evt, sb.socketClient); err != nil {
					sb.logger.Error("slash command failed", "error", err)
				}
			case socketmode.EventTypeConnected:
				sb.logger.Info("connected to slack")
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
