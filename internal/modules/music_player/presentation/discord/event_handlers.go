package discord

import (
	"github.com/bwmarrin/discordgo"
)

// VoiceEventSink receives voice gateway events, e.g., to hand them to an
// external audio node.
type VoiceEventSink interface {
	OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate)
	OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate)
}

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	voice        VoiceEventSink
	autocomplete *AutocompleteHandler
}

// NewEventHandlers creates a new EventHandlers. voice may be nil when the
// voice transport handles gateway events on its own.
func NewEventHandlers(voice VoiceEventSink, autocomplete *AutocompleteHandler) *EventHandlers {
	return &EventHandlers{
		voice:        voice,
		autocomplete: autocomplete,
	}
}

// HandleVoiceStateUpdate forwards voice state updates.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if h.voice != nil {
		h.voice.OnVoiceStateUpdate(event)
	}
}

// HandleVoiceServerUpdate forwards voice server updates.
func (h *EventHandlers) HandleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if h.voice != nil {
		h.voice.OnVoiceServerUpdate(event)
	}
}

// HandleInteractionCreate answers autocomplete interactions. Commands are
// routed by the bot itself.
func (h *EventHandlers) HandleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if h.autocomplete != nil {
		h.autocomplete.Handle(s, i)
	}
}
