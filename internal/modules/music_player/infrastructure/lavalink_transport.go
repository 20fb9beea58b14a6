package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// pendingVoiceConnection tracks the gateway events a join is waiting for.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	channelID      snowflake.ID
	needServer     bool
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

func newPendingVoiceConnection(channelID snowflake.ID, needServer bool) *pendingVoiceConnection {
	return &pendingVoiceConnection{
		channelID:  channelID,
		needServer: needServer,
		ready:      make(chan struct{}),
	}
}

// onVoiceState records a voice state update for the given channel.
func (p *pendingVoiceConnection) onVoiceState(channelID snowflake.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if channelID != p.channelID {
		return
	}
	p.hasVoiceState = true
	p.signalLocked()
}

func (p *pendingVoiceConnection) onVoiceServer() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hasVoiceServer = true
	p.signalLocked()
}

func (p *pendingVoiceConnection) signalLocked() {
	if !p.hasVoiceState || (p.needServer && !p.hasVoiceServer) {
		return
	}
	select {
	case <-p.ready:
	default:
		close(p.ready)
	}
}

// voiceEventBuffer holds the first VoiceStateUpdate and VoiceServerUpdate of
// a connection until both arrived, so Lavalink never sees a partial state.
type voiceEventBuffer struct {
	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	hasVoiceServer bool
	token          string
	endpoint       string
}

func (b *voiceEventBuffer) complete() bool {
	return b.hasVoiceState && b.hasVoiceServer
}

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter wraps DisGoLink. It is the Lavalink VoiceTransport and
// forwards the bot's voice gateway events to the Lavalink node.
type LavalinkAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	mu           sync.Mutex
	pending      map[snowflake.ID]*pendingVoiceConnection
	voiceBuffers map[snowflake.ID]*voiceEventBuffer
	conns        map[snowflake.ID]*lavalinkConnection
}

// NewLavalinkAdapter creates a new LavalinkAdapter and connects to the node.
// The session must be open.
func NewLavalinkAdapter(
	ctx context.Context,
	session *discordgo.Session,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session:      session,
		botID:        botID,
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
		conns:        make(map[snowflake.ID]*lavalinkConnection),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// Close disconnects from every Lavalink node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// Connect joins a voice channel and waits until Lavalink has everything it
// needs to stream to it.
func (c *LavalinkAdapter) Connect(
	ctx context.Context,
	guildID, channelID snowflake.ID,
) (ports.VoiceConnection, error) {
	if err := c.joinAndWait(ctx, guildID, channelID, true); err != nil {
		return nil, err
	}

	conn := &lavalinkConnection{
		adapter:   c,
		guildID:   guildID,
		channelID: channelID,
		connected: true,
	}

	c.mu.Lock()
	if old := c.conns[guildID]; old != nil {
		old.markDisconnected()
	}
	c.conns[guildID] = conn
	c.mu.Unlock()

	return conn, nil
}

func (c *LavalinkAdapter) joinAndWait(
	ctx context.Context,
	guildID, channelID snowflake.ID,
	needServer bool,
) error {
	pending := newPendingVoiceConnection(channelID, needServer)

	c.mu.Lock()
	c.pending[guildID] = pending
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.pending[guildID] == pending {
			delete(c.pending, guildID)
		}
		c.mu.Unlock()
	}()

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	timer := time.NewTimer(voiceConnectionTimeout)
	defer timer.Stop()

	select {
	case <-pending.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-timer.C:
		return errors.New("timeout waiting for voice connection")
	}
}

// resolveEncoded returns the encoded track data, loading it through the node
// for tracks that only carry a URL or local path.
func (c *LavalinkAdapter) resolveEncoded(ctx context.Context, track *domain.Track) (string, error) {
	if track.Encoded != "" {
		return track.Encoded, nil
	}

	node := c.link.BestNode()
	if node == nil {
		return "", errors.New("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, track.StreamURL)
	if err != nil {
		return "", fmt.Errorf("failed to load track: %w", err)
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return data.Encoded, nil
	case lavalink.Playlist:
		if len(data.Tracks) > 0 {
			return data.Tracks[0].Encoded, nil
		}
	case lavalink.Search:
		if len(data) > 0 {
			return data[0].Encoded, nil
		}
	case lavalink.Exception:
		return "", fmt.Errorf("failed to load track: %s", data.Message)
	}
	return "", fmt.Errorf("nothing to play at %q", track.StreamURL)
}

func (c *LavalinkAdapter) connection(guildID snowflake.ID) *lavalinkConnection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conns[guildID]
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	c.mu.Lock()
	buffer := c.bufferLocked(guildID)
	buffer.hasVoiceServer = true
	buffer.token = event.Token
	buffer.endpoint = event.Endpoint
	ready := buffer.complete()
	if ready {
		delete(c.voiceBuffers, guildID)
	}
	pending := c.pending[guildID]
	c.mu.Unlock()

	if ready {
		c.forwardVoiceEvents(guildID, buffer)
	}
	if pending != nil {
		pending.onVoiceServer()
	}
}

// OnVoiceStateUpdate handles Discord voice state updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	if event.ChannelID == "" {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)

		c.mu.Lock()
		delete(c.voiceBuffers, guildID)
		conn := c.conns[guildID]
		delete(c.conns, guildID)
		c.mu.Unlock()

		if conn != nil {
			conn.markDisconnected()
		}
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	c.mu.Lock()
	conn := c.conns[guildID]
	var buffer *voiceEventBuffer
	ready := false
	if conn == nil {
		buffer = c.bufferLocked(guildID)
		buffer.hasVoiceState = true
		buffer.channelID = &channelID
		buffer.sessionID = event.SessionID
		ready = buffer.complete()
		if ready {
			delete(c.voiceBuffers, guildID)
		}
	}
	pending := c.pending[guildID]
	c.mu.Unlock()

	switch {
	case conn != nil:
		// Established connection: a move or a session refresh.
		conn.setChannel(channelID)
		c.link.OnVoiceStateUpdate(context.Background(), guildID, &channelID, event.SessionID)
	case ready:
		c.forwardVoiceEvents(guildID, buffer)
	}

	if pending != nil {
		pending.onVoiceState(channelID)
	}
}

func (c *LavalinkAdapter) bufferLocked(guildID snowflake.ID) *voiceEventBuffer {
	buffer, ok := c.voiceBuffers[guildID]
	if !ok {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

// forwardVoiceEvents sends a complete voice state to Lavalink, state first.
func (c *LavalinkAdapter) forwardVoiceEvents(guildID snowflake.ID, buffer *voiceEventBuffer) {
	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", buffer.channelID,
		"hasSessionID", buffer.sessionID != "",
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, buffer.channelID, buffer.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, buffer.token, buffer.endpoint)
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("lavalink track started", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("lavalink track ended", "guild", player.GuildID(), "reason", event.Reason)

	// A replaced track is followed by the start of the replacement.
	if event.Reason == lavalink.TrackEndReasonReplaced {
		return
	}

	conn := c.connection(player.GuildID())
	if conn == nil {
		return
	}

	var err error
	if event.Reason == lavalink.TrackEndReasonLoadFailed {
		err = errors.New("lavalink failed to load the track")
	}
	conn.complete(event.Track.Encoded, err)
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)

	if conn := c.connection(player.GuildID()); conn != nil {
		conn.recordException(event.Track.Encoded, errors.New(event.Exception.Message))
	}
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

// activePlayback is the track a connection is currently playing.
type activePlayback struct {
	encoded    string
	onComplete func(error)
	err        error // exception reported before the end event
}

// lavalinkConnection is one guild's voice session on the Lavalink node.
type lavalinkConnection struct {
	adapter *LavalinkAdapter
	guildID snowflake.ID

	mu        sync.Mutex
	channelID snowflake.ID
	connected bool
	active    *activePlayback
}

func (l *lavalinkConnection) Play(
	ctx context.Context,
	track *domain.Track,
	onComplete func(error),
) error {
	encoded, err := l.adapter.resolveEncoded(ctx, track)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return errors.New("voice connection is closed")
	}
	l.active = &activePlayback{encoded: encoded, onComplete: onComplete}
	l.mu.Unlock()

	player := l.adapter.link.Player(l.guildID)
	// Use WithEncodedTrack to avoid userData:null issue
	if err := player.Update(ctx, lavalink.WithEncodedTrack(encoded)); err != nil {
		l.mu.Lock()
		l.active = nil
		l.mu.Unlock()
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

func (l *lavalinkConnection) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), voiceConnectionTimeout)
	defer cancel()

	player := l.adapter.link.ExistingPlayer(l.guildID)
	if player == nil {
		l.complete("", nil)
		return nil
	}
	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

func (l *lavalinkConnection) MoveTo(ctx context.Context, channelID snowflake.ID) error {
	if err := l.adapter.joinAndWait(ctx, l.guildID, channelID, false); err != nil {
		return err
	}
	l.setChannel(channelID)
	return nil
}

func (l *lavalinkConnection) Disconnect(ctx context.Context) error {
	if player := l.adapter.link.ExistingPlayer(l.guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", l.guildID, "error", err)
		}
	}

	l.adapter.mu.Lock()
	if l.adapter.conns[l.guildID] == l {
		delete(l.adapter.conns, l.guildID)
	}
	l.adapter.mu.Unlock()
	l.markDisconnected()

	if err := l.adapter.session.ChannelVoiceJoinManual(l.guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

func (l *lavalinkConnection) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *lavalinkConnection) ChannelID() snowflake.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channelID
}

func (l *lavalinkConnection) setChannel(channelID snowflake.ID) {
	l.mu.Lock()
	l.channelID = channelID
	l.mu.Unlock()
}

// markDisconnected ends the active playback, if any.
func (l *lavalinkConnection) markDisconnected() {
	l.mu.Lock()
	l.connected = false
	l.mu.Unlock()
	l.complete("", nil)
}

func (l *lavalinkConnection) recordException(encoded string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active != nil && l.active.encoded == encoded {
		l.active.err = err
	}
}

// complete reports the end of the active playback. An empty encoded matches
// whatever is playing.
func (l *lavalinkConnection) complete(encoded string, err error) {
	l.mu.Lock()
	active := l.active
	if active == nil || (encoded != "" && active.encoded != encoded) {
		l.mu.Unlock()
		return
	}
	l.active = nil
	l.mu.Unlock()

	if err == nil {
		err = active.err
	}
	active.onComplete(err)
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.VoiceTransport  = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*lavalinkConnection)(nil)
)
