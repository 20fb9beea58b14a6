package presentation

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/greeting/application"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(interactor *application.PingInteractor) *PingHandler {
	return &PingHandler{interactor: interactor}
}

// Handle replies with the gateway latency and uptime.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	report := h.interactor.Execute()
	if report.IsSlow() {
		slog.Warn("gateway latency is high", "latency", report.Latency)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: report.Message(),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// messageSender is the part of the session used to reply to messages.
type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// GreetHandler replies to messages starting with $hello.
type GreetHandler struct {
	interactor *application.GreetInteractor
}

// NewGreetHandler creates a new GreetHandler.
func NewGreetHandler() *GreetHandler {
	return &GreetHandler{
		interactor: application.NewGreetInteractor(),
	}
}

// HandleMessage is the discordgo event handler for MessageCreate events.
func (h *GreetHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.handle(s, s.State.User.ID, m)
}

func (h *GreetHandler) handle(sender messageSender, selfID string, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == selfID || m.Author.Bot {
		return
	}

	result := h.interactor.Execute(m.Content)
	if !result.ShouldRespond {
		return
	}

	slog.Debug("greeting user", "user", m.Author.ID, "channel", m.ChannelID)
	if _, err := sender.ChannelMessageSend(m.ChannelID, result.Response); err != nil {
		slog.Error("failed to send message", "channel", m.ChannelID, "error", err)
	}
}
