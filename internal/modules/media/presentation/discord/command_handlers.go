package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/media/application/usecases"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

const colorError = 0xE74C3C

// Downloads and conversions may take a while for long videos.
const (
	downloadTimeout = 5 * time.Minute
	resizeTimeout   = time.Minute
)

var errMissingAttachment = errors.New("please attach an image")

// userErrors are shown to users with their own message.
var userErrors = []error{
	usecases.ErrDownloadInProgress,
	usecases.ErrRateLimited,
	domain.ErrInvalidYouTubeURL,
	domain.ErrNotShareLink,
	domain.ErrPlaylistLink,
	domain.ErrInvalidTimestamp,
	domain.ErrLiveStream,
	domain.ErrStartBeyondEnd,
	domain.ErrInvalidResizeMode,
	domain.ErrInvalidDimensions,
	domain.ErrNotAnImage,
	domain.ErrImageTooLarge,
	domain.ErrUnreadableImage,
	errMissingAttachment,
}

// CommandHandlers holds the media command handlers.
type CommandHandlers struct {
	ytmp3     *usecases.YtMp3Service
	audioClip *usecases.AudioClipService
	resize    *usecases.ResizeImageService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	ytmp3 *usecases.YtMp3Service,
	audioClip *usecases.AudioClipService,
	resize *usecases.ResizeImageService,
) *CommandHandlers {
	return &CommandHandlers{
		ytmp3:     ytmp3,
		audioClip: audioClip,
		resize:    resize,
	}
}

// userID works in servers and direct messages.
func userID(i *discordgo.InteractionCreate) (snowflake.ID, error) {
	var raw string
	switch {
	case i.Member != nil && i.Member.User != nil:
		raw = i.Member.User.ID
	case i.User != nil:
		raw = i.User.ID
	default:
		return 0, errors.New("interaction has no user")
	}

	id, err := snowflake.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return id, nil
}

func option(i *discordgo.InteractionCreate, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	if opt := option(i, name); opt != nil {
		return opt.StringValue()
	}
	return ""
}

func intOption(i *discordgo.InteractionCreate, name string) int {
	if opt := option(i, name); opt != nil {
		return int(opt.IntValue())
	}
	return 0
}

// HandleYtMp3 handles the /ytmp3 command.
func (h *CommandHandlers) HandleYtMp3(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	user, err := userID(i)
	if err != nil {
		return err
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	file, err := h.ytmp3.Download(ctx, usecases.YtMp3Input{
		UserID: user,
		URL:    stringOption(i, "url"),
	})
	if err != nil {
		return followupError(r, err)
	}
	defer file.Remove()

	return followupFile(r, file)
}

// HandleAudioClip handles the /audioclip command.
func (h *CommandHandlers) HandleAudioClip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	user, err := userID(i)
	if err != nil {
		return err
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	file, err := h.audioClip.Clip(ctx, usecases.AudioClipInput{
		UserID:   user,
		URL:      stringOption(i, "url"),
		Length:   stringOption(i, "length"),
		FileName: stringOption(i, "file_name"),
	})
	if err != nil {
		return followupError(r, err)
	}
	defer file.Remove()

	return followupFile(r, file)
}

// HandleResizeImage handles the /resize_image command.
func (h *CommandHandlers) HandleResizeImage(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	attachment := resolvedAttachment(i, "image")
	if attachment == nil {
		return respondError(r, errMissingAttachment)
	}

	if err := r.Defer(true); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), resizeTimeout)
	defer cancel()

	out, err := h.resize.Resize(ctx, usecases.ResizeImageInput{
		URL:         attachment.URL,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		Width:       intOption(i, "width"),
		Height:      intOption(i, "height"),
		Mode:        stringOption(i, "mode"),
	})
	if err != nil {
		return followupError(r, err)
	}

	return r.Followup(&discordgo.WebhookParams{
		Files: []*discordgo.File{{
			Name:        out.Name,
			ContentType: "image/png",
			Reader:      bytes.NewReader(out.Data),
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	})
}

func resolvedAttachment(i *discordgo.InteractionCreate, name string) *discordgo.MessageAttachment {
	data := i.ApplicationCommandData()
	opt := option(i, name)
	if opt == nil || data.Resolved == nil {
		return nil
	}
	id, ok := opt.Value.(string)
	if !ok {
		return nil
	}
	return data.Resolved.Attachments[id]
}

func followupFile(r bot.Responder, file *usecases.DownloadedFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer func() { _ = f.Close() }()

	return r.Followup(&discordgo.WebhookParams{
		Files: []*discordgo.File{{
			Name:        file.Name,
			ContentType: "audio/mpeg",
			Reader:      f,
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	})
}

func userMessage(err error) (string, bool) {
	var tooLong *domain.VideoTooLongError
	if errors.As(err, &tooLong) {
		return sentence(tooLong.Error()), true
	}

	var dlErr *domain.DownloadError
	if errors.As(err, &dlErr) {
		if errors.Is(dlErr.Err, context.DeadlineExceeded) {
			return "The download took too long. Please try again.", true
		}
		if dlErr.Reason != "" {
			return sentence("could not download that video: " + dlErr.Reason), true
		}
		return "Could not download that video. Please try again later.", true
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

func respondError(r bot.Responder, err error) error {
	message, ok := userMessage(err)
	if !ok {
		return err
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func followupError(r bot.Responder, err error) error {
	message, ok := userMessage(err)
	if !ok {
		return err
	}
	return r.Followup(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}
