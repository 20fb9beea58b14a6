package ports

import (
	"context"

	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// EventPublisher publishes playback events.
// Implementations must not block the caller.
type EventPublisher interface {
	PublishPlaybackStarted(event domain.PlaybackStartedEvent)
	PublishPlaybackFinished(event domain.PlaybackFinishedEvent)
}

// EventSubscriber lets handlers react to playback events. Events are
// delivered in the order they were published.
type EventSubscriber interface {
	OnPlaybackStarted(handler func(context.Context, domain.PlaybackStartedEvent))
	OnPlaybackFinished(handler func(context.Context, domain.PlaybackFinishedEvent))
}
