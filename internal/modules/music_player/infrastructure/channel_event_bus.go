package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for the event channel.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// A single dispatcher goroutine delivers events, so a track's finished event
// never overtakes its started event.
type ChannelEventBus struct {
	events chan any

	playbackStartedHandlers  []func(context.Context, domain.PlaybackStartedEvent)
	playbackFinishedHandlers []func(context.Context, domain.PlaybackFinishedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		events: make(chan any, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

func (b *ChannelEventBus) dispatch() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.events:
			if !ok {
				return
			}
			b.deliver(event)
		}
	}
}

func (b *ChannelEventBus) deliver(event any) {
	b.mu.RLock()
	started := b.playbackStartedHandlers
	finished := b.playbackFinishedHandlers
	b.mu.RUnlock()

	switch e := event.(type) {
	case domain.PlaybackStartedEvent:
		for _, handler := range started {
			handler(b.ctx, e)
		}
	case domain.PlaybackFinishedEvent:
		for _, handler := range finished {
			handler(b.ctx, e)
		}
	default:
		slog.Warn("dropping event of unknown type", "event", event)
	}
}

func (b *ChannelEventBus) publish(kind string, guild any, event any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", kind)
		return
	}

	select {
	case b.events <- event:
		slog.Debug("published event", "type", kind, "guild", guild)
	default:
		slog.Warn("event buffer full, dropping event", "type", kind)
	}
}

// --- EventPublisher interface ---

// PublishPlaybackStarted publishes a PlaybackStartedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishPlaybackStarted(event domain.PlaybackStartedEvent) {
	b.publish("PlaybackStarted", event.GuildID, event)
}

// PublishPlaybackFinished publishes a PlaybackFinishedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishPlaybackFinished(event domain.PlaybackFinishedEvent) {
	b.publish("PlaybackFinished", event.GuildID, event)
}

// --- EventSubscriber interface ---

// OnPlaybackStarted registers a handler for PlaybackStartedEvent.
func (b *ChannelEventBus) OnPlaybackStarted(
	handler func(context.Context, domain.PlaybackStartedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackStartedHandlers = append(b.playbackStartedHandlers, handler)
}

// OnPlaybackFinished registers a handler for PlaybackFinishedEvent.
func (b *ChannelEventBus) OnPlaybackFinished(
	handler func(context.Context, domain.PlaybackFinishedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackFinishedHandlers = append(b.playbackFinishedHandlers, handler)
}

// Close stops the dispatcher. Events still buffered are discarded and
// publishing becomes a no-op.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	close(b.events)
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
