package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

var minDimension = 1.0

// Commands returns the slash commands of the media module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ytmp3",
			Description: "Download a YouTube video as MP3 (up to 7 minutes)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "The YouTube URL to convert",
					Required:    true,
				},
			},
		},
		{
			Name:        "audioclip",
			Description: "Cut an MP3 clip from a YouTube share link",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "YouTube share link (youtu.be/... or youtube.com/shorts/...), start is taken from t=",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "length",
					Description: "Clip length (SS, MM:SS, or HH:MM:SS), max 5 minutes",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "file_name",
					Description: "Custom file name (without extension)",
				},
			},
		},
		{
			Name:        "resize_image",
			Description: "Resize an image to the given width and height",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "image",
					Description: "The image to resize",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "width",
					Description: "Target width (px)",
					Required:    true,
					MinValue:    &minDimension,
					MaxValue:    domain.MaxImageDimension,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "height",
					Description: "Target height (px)",
					Required:    true,
					MinValue:    &minDimension,
					MaxValue:    domain.MaxImageDimension,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "How to handle the aspect ratio",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "fit (no crop)", Value: string(domain.ResizeFit)},
						{Name: "cover (crop to fill)", Value: string(domain.ResizeCover)},
						{Name: "pad (letterbox)", Value: string(domain.ResizePad)},
						{Name: "stretch (distort)", Value: string(domain.ResizeStretch)},
					},
				},
			},
		},
	}
}
