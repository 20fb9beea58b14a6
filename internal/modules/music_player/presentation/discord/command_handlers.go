package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// commandTimeout bounds joining plus resolving for a single command.
const commandTimeout = 60 * time.Second

var errGuildOnly = errors.New("this command can only be used in a server")

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	voiceChannel *usecases.VoiceChannelService
	playback     *usecases.PlaybackService
	queue        *usecases.QueueService
	soundboard   *usecases.SoundboardService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	voiceChannel *usecases.VoiceChannelService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	soundboard *usecases.SoundboardService,
) *CommandHandlers {
	return &CommandHandlers{
		voiceChannel: voiceChannel,
		playback:     playback,
		queue:        queue,
		soundboard:   soundboard,
	}
}

// interactionIDs holds the identifiers every command needs.
type interactionIDs struct {
	guildID   snowflake.ID
	userID    snowflake.ID
	channelID snowflake.ID
}

func parseInteraction(i *discordgo.InteractionCreate) (interactionIDs, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return interactionIDs{}, errGuildOnly
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return interactionIDs{}, fmt.Errorf("invalid guild ID: %w", err)
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return interactionIDs{}, fmt.Errorf("invalid user ID: %w", err)
	}
	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return interactionIDs{}, fmt.Errorf("invalid channel ID: %w", err)
	}

	return interactionIDs{guildID: guildID, userID: userID, channelID: channelID}, nil
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// HandleJoin handles the /join command.
func (h *CommandHandlers) HandleJoin(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	var voiceChannelID snowflake.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			voiceChannelID, err = snowflake.Parse(opt.ChannelValue(nil).ID)
			if err != nil {
				return respondError(r, errors.New("invalid voice channel"))
			}
		}
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	output, err := h.voiceChannel.Join(ctx, usecases.JoinInput{
		GuildID:        ids.guildID,
		UserID:         ids.userID,
		VoiceChannelID: voiceChannelID,
	})
	if err != nil {
		return followupError(r, err)
	}

	return followupEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Connected to <#%d>.", output.VoiceChannelID),
		Color:       colorSuccess,
	})
}

// HandleLeave handles the /leave command.
func (h *CommandHandlers) HandleLeave(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	output, err := h.voiceChannel.Leave(ctx, usecases.LeaveInput{
		GuildID: ids.guildID,
		UserID:  ids.userID,
	})
	if err != nil {
		if output == nil {
			return respondError(r, err)
		}
		// The player has already let go of the connection.
		slog.Warn("failed to disconnect cleanly", "guild", ids.guildID, "error", err)
	}

	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Disconnected from <#%d>.", output.VoiceChannelID),
		Color:       colorSuccess,
	})
}

// HandlePlay handles the /play command.
func (h *CommandHandlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	query := strings.TrimSpace(stringOption(i, "query"))
	if query == "" {
		return respondError(r, usecases.ErrEmptyQuery)
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	output, err := h.queue.Play(ctx, usecases.PlayInput{
		GuildID:               ids.guildID,
		UserID:                ids.userID,
		NotificationChannelID: ids.channelID,
		Query:                 query,
	})
	if err != nil {
		return followupError(r, err)
	}

	return followupEmbed(r, enqueuedEmbed(output))
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	output, err := h.playback.Skip(usecases.SkipInput{GuildID: ids.guildID})
	if err != nil {
		return respondError(r, err)
	}

	description := fmt.Sprintf("Skipped %s.", trackLink(output.SkippedTrack))
	if output.NextTrack != nil {
		description += fmt.Sprintf("\nUp next: %s", trackLink(output.NextTrack))
	}

	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	output, err := h.playback.Stop(usecases.StopInput{GuildID: ids.guildID})
	if err != nil {
		return respondError(r, err)
	}

	description := "Stopped playback."
	switch output.Cleared {
	case 0:
	case 1:
		description += " Cleared 1 track from the queue."
	default:
		description += fmt.Sprintf(" Cleared %d tracks from the queue.", output.Cleared)
	}

	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	output, err := h.queue.List(usecases.QueueListInput{GuildID: ids.guildID})
	if err != nil {
		return respondError(r, err)
	}

	return respondEmbed(r, queueEmbed(output))
}

// HandleNowPlaying handles the /nowplaying command.
func (h *CommandHandlers) HandleNowPlaying(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	output, err := h.queue.NowPlaying(usecases.NowPlayingInput{GuildID: ids.guildID})
	if err != nil {
		return respondError(r, err)
	}

	return respondEmbed(r, nowPlayingEmbed(output.Track))
}

// HandleSoundboard handles the /soundboard command.
func (h *CommandHandlers) HandleSoundboard(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	name := strings.TrimSpace(stringOption(i, "sound"))
	if name == "" {
		return respondError(r, usecases.ErrSoundNotFound)
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	output, err := h.soundboard.PlaySound(ctx, usecases.PlaySoundInput{
		GuildID:               ids.guildID,
		UserID:                ids.userID,
		NotificationChannelID: ids.channelID,
		Name:                  name,
	})
	if err != nil {
		return followupError(r, err)
	}

	return followupEmbed(r, enqueuedEmbed(output))
}

// Embeds.

func enqueuedEmbed(output *usecases.PlayOutput) *discordgo.MessageEmbed {
	var description string
	if output.StartsImmediately {
		description = fmt.Sprintf("Now playing %s.", trackLink(output.Track))
	} else {
		description = fmt.Sprintf(
			"Added %s to the queue at position %d.",
			trackLink(output.Track),
			output.Position,
		)
	}

	return &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}
}

func queueEmbed(output *usecases.QueueListOutput) *discordgo.MessageEmbed {
	var sb strings.Builder

	if output.CurrentTrack != nil {
		fmt.Fprintf(&sb, "**Now Playing:** %s\n", trackLine(output.CurrentTrack))
	}

	if len(output.Tracks) > 0 {
		sb.WriteString("\n**Up Next:**\n")
		for idx, track := range output.Tracks {
			writeTrackLine(&sb, idx+1, track)
		}
	}

	if more := output.TotalTracks - len(output.Tracks); more > 0 {
		fmt.Fprintf(&sb, "...and %d more\n", more)
	}

	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Color:       colorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d track(s) pending", output.TotalTracks),
		},
	}
}

func nowPlayingEmbed(track *usecases.Track) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: track.Title,
		URL:   track.SourceURL,
		Color: track.Source().Color(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Duration",
				Value:  track.FormattedDuration(),
				Inline: true,
			},
		},
	}

	if track.Artist != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Artist",
			Value:  track.Artist,
			Inline: true,
		})
	}
	if track.RequesterID != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Requested by",
			Value:  fmt.Sprintf("<@%d>", track.RequesterID),
			Inline: true,
		})
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}

	return embed
}

func trackLink(track *usecases.Track) string {
	if track == nil {
		return "nothing"
	}
	if track.SourceURL != "" {
		return fmt.Sprintf("[%s](%s)", escapeMarkdown(track.Title), track.SourceURL)
	}
	return fmt.Sprintf("**%s**", escapeMarkdown(track.Title))
}

func trackLine(track *usecases.Track) string {
	line := trackLink(track)
	if track.Artist != "" {
		line += " - " + escapeMarkdown(track.Artist)
	}
	return line + fmt.Sprintf(" `%s`", track.FormattedDuration())
}

// writeTrackLine writes a single track line to the string builder.
// Escapes period to prevent Discord markdown list formatting.
func writeTrackLine(sb *strings.Builder, displayIndex int, track *usecases.Track) {
	fmt.Fprintf(sb, "%d\\. %s\n", displayIndex, trackLine(track))
}

var markdownEscaper = strings.NewReplacer(
	"[", "\\[",
	"]", "\\]",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Response helpers.

// userErrors are shown to the user as-is.
var userErrors = []error{
	errGuildOnly,
	usecases.ErrNotConnected,
	usecases.ErrUserNotInVoice,
	usecases.ErrNotInSameChannel,
	usecases.ErrNotPlaying,
	usecases.ErrQueueEmpty,
	usecases.ErrQueueFull,
	usecases.ErrEmptyQuery,
	usecases.ErrSoundNotFound,
	usecases.ErrPlayerClosed,
}

// userMessage returns the message shown for errors the user can act on.
// It reports false for unexpected errors, which are left to the bot's
// generic error reply.
func userMessage(err error) (string, bool) {
	var resErr *domain.ResolutionError
	if errors.As(err, &resErr) {
		if resErr.Reason != "" {
			return sentence("could not load that track: " + resErr.Reason), true
		}
		return "Could not load that track. Please try again later.", true
	}

	var connErr *domain.ConnectionError
	if errors.As(err, &connErr) {
		return "Could not connect to the voice channel. Please try again.", true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "That took too long. Please try again.", true
	}
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return sentence(known.Error()), true
		}
	}

	return "", false
}

// sentence capitalizes the first letter and terminates with a period.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func followupEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Followup(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

func respondError(r bot.Responder, err error) error {
	message, ok := userMessage(err)
	if !ok {
		return err
	}
	return respondEmbed(r, errorEmbed(message))
}

func followupError(r bot.Responder, err error) error {
	message, ok := userMessage(err)
	if !ok {
		return err
	}
	return followupEmbed(r, errorEmbed(message))
}
