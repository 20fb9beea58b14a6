package greeting

import (
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/greeting/application"
	"github.com/sglre6355/mediabot/internal/modules/greeting/presentation"
)

func init() {
	bot.Register(&GreetingModule{})
}

// GreetingModule provides the /ping health check and the $hello message
// trigger.
type GreetingModule struct {
	pingHandler  *presentation.PingHandler
	greetHandler *presentation.GreetHandler
}

// Name returns the module name.
func (m *GreetingModule) Name() string {
	return "greeting"
}

// Commands returns the slash commands for this module.
func (m *GreetingModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Show the gateway latency and uptime of the bot",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *GreetingModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": m.pingHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *GreetingModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.greetHandler.HandleMessage,
	}
}

// Init initializes the module.
func (m *GreetingModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("greeting requires a Discord session")
	}

	m.pingHandler = presentation.NewPingHandler(
		application.NewPingInteractor(deps.Session, time.Now()),
	)
	m.greetHandler = presentation.NewGreetHandler()
	return nil
}

// Shutdown cleans up module resources.
func (m *GreetingModule) Shutdown() error {
	return nil
}
