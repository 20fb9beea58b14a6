package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/usecases"
)

const (
	// Discord drops autocomplete answers that take longer than three seconds.
	autocompleteTimeout = 2500 * time.Millisecond
	maxChoices          = 25
	maxChoiceLength     = 100
	minQueryLength      = 2
)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	trackLoader *usecases.TrackLoaderService
	soundboard  *usecases.SoundboardService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(
	trackLoader *usecases.TrackLoaderService,
	soundboard *usecases.SoundboardService,
) *AutocompleteHandler {
	return &AutocompleteHandler{
		trackLoader: trackLoader,
		soundboard:  soundboard,
	}
}

// Handle routes an autocomplete interaction to the matching command.
func (h *AutocompleteHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch i.ApplicationCommandData().Name {
	case "play":
		choices = h.PlayChoices(focusedValue(i, "query"))
	case "soundboard":
		choices = h.SoundChoices(focusedValue(i, "sound"))
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		slog.Debug("failed to respond to autocomplete", "error", err)
	}
}

// PlayChoices returns search suggestions for the play command.
func (h *AutocompleteHandler) PlayChoices(query string) []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{}

	// Don't search for very short queries
	if len([]rune(query)) < minQueryLength {
		return choices
	}

	ctx, cancel := context.WithTimeout(context.Background(), autocompleteTimeout)
	defer cancel()

	output, err := h.trackLoader.SearchTracks(ctx, usecases.SearchTracksInput{
		Query: query,
		Limit: maxChoices,
	})
	if err != nil {
		slog.Debug("failed to search tracks for autocomplete", "query", query, "error", err)
		return choices
	}

	for _, suggestion := range output.Suggestions {
		if len(suggestion.URL) > maxChoiceLength {
			continue
		}
		name := suggestion.Title
		if suggestion.Duration > 0 {
			name = fmt.Sprintf("%s (%s)", name, formatDuration(suggestion.Duration))
		}
		// Use the URL as the value so it can be played directly
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(name, maxChoiceLength),
			Value: suggestion.URL,
		})
	}
	return choices
}

// SoundChoices returns soundboard entries matching the typed text.
func (h *AutocompleteHandler) SoundChoices(filter string) []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{}

	sounds, err := h.soundboard.ListSounds(usecases.ListSoundsInput{
		Filter: filter,
		Limit:  maxChoices,
	})
	if err != nil {
		slog.Warn("failed to list sounds for autocomplete", "error", err)
		return choices
	}

	for _, sound := range sounds {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  sound.DisplayName,
			Value: sound.DisplayName,
		})
	}
	return choices
}

func focusedValue(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
