package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

const (
	defaultGraceDelay     = 100 * time.Millisecond
	defaultStopTimeout    = 5 * time.Second
	disconnectOnCloseWait = 5 * time.Second
)

// PlayerOptions tunes a GuildPlayer.
type PlayerOptions struct {
	MaxQueue    int           // maximum pending tracks, 0 for unbounded
	GraceDelay  time.Duration // pause after the queue runs dry
	StopTimeout time.Duration // wait for a stopped track to report completion
}

func (o PlayerOptions) withDefaults() PlayerOptions {
	if o.GraceDelay <= 0 {
		o.GraceDelay = defaultGraceDelay
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = defaultStopTimeout
	}
	return o
}

// GuildPlayer owns the queue, the current track and the voice connection of
// one guild. A single playback goroutine, started by NewGuildPlayer, takes
// tracks off the queue in FIFO order and streams them through the connection.
type GuildPlayer struct {
	guildID   snowflake.ID
	transport ports.VoiceTransport
	publisher ports.EventPublisher
	opts      PlayerOptions

	// connectMu serializes EnsureConnected, Leave and Close.
	connectMu sync.Mutex

	mu           sync.Mutex
	queue        *domain.Queue
	current      *domain.Track
	cancelTrack  context.CancelFunc // cancels current only
	conn         ports.VoiceConnection
	lastActivity time.Time
	connecting   bool
	closed       bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGuildPlayer creates a player for the guild and starts its playback loop.
// publisher may be nil.
func NewGuildPlayer(
	guildID snowflake.ID,
	transport ports.VoiceTransport,
	publisher ports.EventPublisher,
	opts PlayerOptions,
) *GuildPlayer {
	ctx, cancel := context.WithCancel(context.Background())
	p := &GuildPlayer{
		guildID:      guildID,
		transport:    transport,
		publisher:    publisher,
		opts:         opts.withDefaults(),
		queue:        domain.NewQueue(),
		lastActivity: time.Now(),
		wake:         make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

// GuildID returns the guild this player belongs to.
func (p *GuildPlayer) GuildID() snowflake.ID {
	return p.guildID
}

// EnsureConnected makes sure the bot is in the given voice channel, moving
// or connecting as needed. It is a no-op when already there.
func (p *GuildPlayer) EnsureConnected(ctx context.Context, channelID snowflake.ID) error {
	p.connectMu.Lock()
	defer p.connectMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	conn := p.conn
	p.connecting = true
	p.lastActivity = time.Now()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.connecting = false
		p.lastActivity = time.Now()
		p.mu.Unlock()
	}()

	if conn != nil && conn.IsConnected() {
		if conn.ChannelID() == channelID {
			return nil
		}
		if err := conn.MoveTo(ctx, channelID); err != nil {
			return &domain.ConnectionError{ChannelID: channelID, Err: err}
		}
		return nil
	}

	if conn != nil {
		// The old handle is dead; drop it before dialing again.
		if err := conn.Disconnect(ctx); err != nil {
			slog.Debug("failed to disconnect stale voice connection",
				"guild", p.guildID, "error", err)
		}
		p.mu.Lock()
		p.conn = nil
		p.mu.Unlock()
	}

	newConn, err := p.transport.Connect(ctx, p.guildID, channelID)
	if err != nil {
		return &domain.ConnectionError{ChannelID: channelID, Err: err}
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = newConn.Disconnect(ctx)
		return ErrPlayerClosed
	}
	p.conn = newConn
	p.mu.Unlock()

	slog.Info("joined voice channel", "guild", p.guildID, "channel", channelID)
	p.signal()
	return nil
}

// Enqueue appends the track to the queue. It never starts playback itself;
// if nothing is playing, the loop is woken to pick the track up.
func (p *GuildPlayer) Enqueue(track *domain.Track) (EnqueueResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return EnqueueResult{}, ErrPlayerClosed
	}
	if p.opts.MaxQueue > 0 && p.queue.Len() >= p.opts.MaxQueue {
		return EnqueueResult{}, ErrQueueFull
	}

	position := p.queue.Push(track)
	p.lastActivity = time.Now()
	idle := p.current == nil
	if idle {
		p.signal()
	}

	return EnqueueResult{
		Track:    track,
		Position: position,
		WasIdle:  idle && position == 1,
	}, nil
}

// Skip ends the current track so the loop moves on to the next one. It
// returns the skipped track and the pending track that will follow it, if any.
func (p *GuildPlayer) Skip() (skipped, next *domain.Track, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, nil, ErrNotPlaying
	}
	p.cancelTrack()
	p.lastActivity = time.Now()
	if head := p.queue.Peek(1); len(head) > 0 {
		next = head[0]
	}
	return p.current, next, nil
}

// Stop discards every pending track and ends the current one. The player
// stays connected.
func (p *GuildPlayer) Stop() StopOutput {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := StopOutput{Cleared: p.queue.Clear()}
	if p.current != nil {
		p.cancelTrack()
		p.current = nil
		p.cancelTrack = nil
		out.StoppedCurrent = true
	}
	p.lastActivity = time.Now()
	return out
}

// Leave disconnects from voice. The track in flight is abandoned and queued
// tracks are dropped by the loop until the player connects again.
func (p *GuildPlayer) Leave(ctx context.Context) (snowflake.ID, error) {
	p.connectMu.Lock()
	defer p.connectMu.Unlock()

	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	if p.cancelTrack != nil {
		p.cancelTrack()
	}
	p.lastActivity = time.Now()
	p.mu.Unlock()

	if conn == nil {
		return 0, ErrNotConnected
	}

	channelID := conn.ChannelID()
	if err := conn.Disconnect(ctx); err != nil {
		return channelID, fmt.Errorf("failed to disconnect: %w", err)
	}
	slog.Info("left voice channel", "guild", p.guildID, "channel", channelID)
	return channelID, nil
}

// Snapshot returns a consistent view of the current track and up to
// DefaultPreviewSize pending tracks.
func (p *GuildPlayer) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Current:     p.current,
		Upcoming:    p.queue.Peek(DefaultPreviewSize),
		QueueLength: p.queue.Len(),
	}
	if p.conn != nil {
		s.Connected = p.conn.IsConnected()
		s.VoiceChannelID = p.conn.ChannelID()
	}
	return s
}

// IsIdle reports whether the player has no connection, no work and no
// activity for at least timeout. A player that is connecting is never idle.
func (p *GuildPlayer) IsIdle(now time.Time, timeout time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return !p.connecting &&
		p.conn == nil &&
		p.current == nil &&
		p.queue.IsEmpty() &&
		now.Sub(p.lastActivity) >= timeout
}

// Close stops the playback loop and disconnects. A closed player rejects
// further work.
func (p *GuildPlayer) Close() {
	p.connectMu.Lock()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.connectMu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	conn := p.conn
	p.conn = nil
	p.queue.Clear()
	p.mu.Unlock()
	p.connectMu.Unlock()

	p.cancel()
	<-p.done

	if conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectOnCloseWait)
		defer cancel()
		if err := conn.Disconnect(ctx); err != nil {
			slog.Warn("failed to disconnect on close", "guild", p.guildID, "error", err)
		}
	}
}

// signal wakes the loop without blocking.
func (p *GuildPlayer) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// touch records activity so the idle janitor leaves the player alone.
func (p *GuildPlayer) touch() {
	p.mu.Lock()
	p.lastActivity = time.Now()
	p.mu.Unlock()
}

func (p *GuildPlayer) run() {
	defer close(p.done)

	for {
		track, conn, trackCtx, cancel, ok := p.next()
		if !ok {
			return
		}

		err := p.play(trackCtx, conn, track)
		cancel()
		p.finish(track, err)

		if !p.settle() {
			return
		}
	}
}

// next blocks until a track can be played and makes it current. Tracks
// popped while there is no usable connection are dropped.
func (p *GuildPlayer) next() (
	*domain.Track,
	ports.VoiceConnection,
	context.Context,
	context.CancelFunc,
	bool,
) {
	for {
		select {
		case <-p.wake:
		default:
		}

		p.mu.Lock()
		track := p.queue.Pop()
		if track != nil {
			conn := p.conn
			if conn == nil || !conn.IsConnected() {
				p.mu.Unlock()
				slog.Warn("dropped track, not connected to voice",
					"guild", p.guildID, "track", track.ID, "title", track.Title)
				continue
			}
			trackCtx, cancel := context.WithCancel(p.ctx)
			p.current = track
			p.cancelTrack = cancel
			p.lastActivity = time.Now()
			p.mu.Unlock()
			return track, conn, trackCtx, cancel, true
		}
		p.mu.Unlock()

		select {
		case <-p.wake:
		case <-p.ctx.Done():
			return nil, nil, nil, nil, false
		}
	}
}

// play streams one track and waits until it completes or ctx is cancelled.
func (p *GuildPlayer) play(
	ctx context.Context,
	conn ports.VoiceConnection,
	track *domain.Track,
) error {
	completed := make(chan error, 1)
	onComplete := func(err error) {
		select {
		case completed <- err:
		default:
		}
	}

	if err := conn.Play(ctx, track, onComplete); err != nil {
		return &domain.PlaybackError{TrackID: track.ID, Title: track.Title, Err: err}
	}

	slog.Debug("started track", "guild", p.guildID, "track", track.ID, "title", track.Title)
	if p.publisher != nil {
		p.publisher.PublishPlaybackStarted(domain.PlaybackStartedEvent{
			GuildID: p.guildID,
			Track:   track,
		})
	}

	select {
	case err := <-completed:
		if err != nil {
			return &domain.PlaybackError{TrackID: track.ID, Title: track.Title, Err: err}
		}
		return nil
	case <-ctx.Done():
	}

	// Skipped, stopped, left or closed. Errors reported by the transport
	// from here on are a consequence of the cancellation.
	if err := conn.Stop(); err != nil {
		slog.Debug("failed to stop track", "guild", p.guildID, "track", track.ID, "error", err)
	}

	timer := time.NewTimer(p.opts.StopTimeout)
	defer timer.Stop()
	select {
	case <-completed:
	case <-timer.C:
		slog.Warn("track did not report completion after stop",
			"guild", p.guildID, "track", track.ID)
	}
	return nil
}

func (p *GuildPlayer) finish(track *domain.Track, err error) {
	p.mu.Lock()
	if p.current != nil && p.current.ID == track.ID {
		p.current = nil
		p.cancelTrack = nil
	}
	p.lastActivity = time.Now()
	p.mu.Unlock()

	if err != nil {
		slog.Warn("track playback failed", "guild", p.guildID, "track", track.ID, "error", err)
	} else {
		slog.Debug("finished track", "guild", p.guildID, "track", track.ID)
	}

	if p.publisher != nil {
		p.publisher.PublishPlaybackFinished(domain.PlaybackFinishedEvent{
			GuildID: p.guildID,
			Track:   track,
			Err:     err,
		})
	}
}

// settle pauses briefly once the queue is drained. It returns false when the
// player is closing.
func (p *GuildPlayer) settle() bool {
	p.mu.Lock()
	empty := p.queue.IsEmpty()
	p.mu.Unlock()

	if !empty {
		return p.ctx.Err() == nil
	}

	timer := time.NewTimer(p.opts.GraceDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-p.wake:
		p.signal()
	case <-p.ctx.Done():
		return false
	}
	return true
}
