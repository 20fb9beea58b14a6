package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

type nowPlayingMessage struct {
	trackID   domain.TrackID
	channelID snowflake.ID
	messageID snowflake.ID
}

// NotificationEventHandler posts a "Now Playing" message when a track starts
// and deletes it when the track finishes.
type NotificationEventHandler struct {
	notifier     ports.NotificationSender
	subscriber   ports.EventSubscriber
	userInfoProv ports.UserInfoProvider

	mu       sync.Mutex
	messages map[snowflake.ID]nowPlayingMessage // guild -> message for the current track
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
// userInfoProv may be nil.
func NewNotificationEventHandler(
	notifier ports.NotificationSender,
	subscriber ports.EventSubscriber,
	userInfoProv ports.UserInfoProvider,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		notifier:     notifier,
		subscriber:   subscriber,
		userInfoProv: userInfoProv,
		messages:     make(map[snowflake.ID]nowPlayingMessage),
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() {
	h.subscriber.OnPlaybackStarted(h.handlePlaybackStarted)
	h.subscriber.OnPlaybackFinished(h.handlePlaybackFinished)

	slog.Debug("notification event handler started")
}

func (h *NotificationEventHandler) handlePlaybackStarted(
	_ context.Context,
	event domain.PlaybackStartedEvent,
) {
	track := event.Track
	if track == nil || track.NotificationChannelID == 0 {
		return
	}

	// A finished event may have been dropped; never leave two messages behind.
	h.deleteMessage(event.GuildID, "")

	info := &ports.NowPlayingInfo{
		Title:         track.Title,
		Artist:        track.Artist,
		Duration:      track.FormattedDuration(),
		URL:           track.SourceURL,
		ArtworkURL:    track.ArtworkURL,
		SourceName:    track.SourceName,
		IsStream:      track.IsStream,
		RequesterName: track.RequesterName,
		EnqueuedAt:    track.EnqueuedAt,
	}
	if h.userInfoProv != nil && track.RequesterID != 0 {
		userInfo, err := h.userInfoProv.GetUserInfo(event.GuildID, track.RequesterID)
		if err != nil {
			slog.Warn("failed to fetch requester info for now playing",
				"guild", event.GuildID,
				"requester", track.RequesterID,
				"error", err,
			)
		} else {
			info.RequesterName = userInfo.DisplayName
			info.RequesterAvatarURL = userInfo.AvatarURL
		}
	}
	if info.RequesterName == "" {
		info.RequesterName = "Unknown"
	}

	slog.Debug("sending now playing notification",
		"guild", event.GuildID,
		"track", track.Title,
	)

	messageID, err := h.notifier.SendNowPlaying(track.NotificationChannelID, info)
	if err != nil {
		slog.Error("failed to send now playing notification",
			"guild", event.GuildID,
			"error", err,
		)
		return
	}

	h.mu.Lock()
	h.messages[event.GuildID] = nowPlayingMessage{
		trackID:   track.ID,
		channelID: track.NotificationChannelID,
		messageID: messageID,
	}
	h.mu.Unlock()
}

func (h *NotificationEventHandler) handlePlaybackFinished(
	_ context.Context,
	event domain.PlaybackFinishedEvent,
) {
	if event.Track == nil {
		return
	}
	h.deleteMessage(event.GuildID, event.Track.ID)
}

// deleteMessage removes the guild's "Now Playing" message. With a non-empty
// trackID, only the message for that track is removed.
func (h *NotificationEventHandler) deleteMessage(guildID snowflake.ID, trackID domain.TrackID) {
	h.mu.Lock()
	msg, ok := h.messages[guildID]
	if !ok || (trackID != "" && msg.trackID != trackID) {
		h.mu.Unlock()
		return
	}
	delete(h.messages, guildID)
	h.mu.Unlock()

	slog.Debug("deleting now playing message",
		"guild", guildID,
		"message_id", msg.messageID,
	)

	if err := h.notifier.DeleteMessage(msg.channelID, msg.messageID); err != nil {
		slog.Warn("failed to delete now playing message",
			"guild", guildID,
			"error", err,
		)
	}
}
