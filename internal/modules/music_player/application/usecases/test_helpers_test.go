package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// fakeTransport hands out fakeConns. Tracks play for trackDuration, or until
// stopped when trackDuration is 0.
type fakeTransport struct {
	mu            sync.Mutex
	connectErr    error
	trackDuration time.Duration
	failTitles    map[string]bool
	conns         []*fakeConn
	started       chan *domain.Track

	// Connect blocks on gate when it is set and reports on dialing first.
	gate    chan struct{}
	dialing chan struct{}
}

func newFakeTransport(trackDuration time.Duration) *fakeTransport {
	return &fakeTransport{
		trackDuration: trackDuration,
		failTitles:    make(map[string]bool),
		started:       make(chan *domain.Track, 64),
		dialing:       make(chan struct{}, 8),
	}
}

// gated makes every Connect wait until the returned func is called.
func (t *fakeTransport) gated() (release func()) {
	gate := make(chan struct{})
	t.mu.Lock()
	t.gate = gate
	t.mu.Unlock()
	return func() { close(gate) }
}

func (t *fakeTransport) Connect(
	_ context.Context,
	_, channelID snowflake.ID,
) (ports.VoiceConnection, error) {
	t.mu.Lock()
	gate := t.gate
	t.mu.Unlock()
	if gate != nil {
		t.dialing <- struct{}{}
		<-gate
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connectErr != nil {
		return nil, t.connectErr
	}
	c := &fakeConn{transport: t, channelID: channelID, connected: true}
	t.conns = append(t.conns, c)
	return c, nil
}

func (t *fakeTransport) connectCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

func (t *fakeTransport) lastConn() *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

// played returns the titles of every track any connection started.
func (t *fakeTransport) played() []string {
	t.mu.Lock()
	conns := append([]*fakeConn(nil), t.conns...)
	t.mu.Unlock()

	var titles []string
	for _, c := range conns {
		c.mu.Lock()
		titles = append(titles, c.played...)
		c.mu.Unlock()
	}
	return titles
}

type fakeConn struct {
	transport *fakeTransport

	mu        sync.Mutex
	channelID snowflake.ID
	connected bool
	moves     int
	played    []string
	stop      chan struct{}
}

func (c *fakeConn) Play(_ context.Context, track *domain.Track, onComplete func(error)) error {
	c.transport.mu.Lock()
	fail := c.transport.failTitles[track.Title]
	duration := c.transport.trackDuration
	c.transport.mu.Unlock()

	if fail {
		return errors.New("stream unavailable")
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.stop = stop
	c.played = append(c.played, track.Title)
	c.mu.Unlock()

	c.transport.started <- track

	go func() {
		var timeout <-chan time.Time
		if duration > 0 {
			timeout = time.After(duration)
		}
		select {
		case <-timeout:
		case <-stop:
		}
		onComplete(nil)
	}()
	return nil
}

func (c *fakeConn) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

func (c *fakeConn) MoveTo(_ context.Context, channelID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.channelID = channelID
	c.moves++
	return nil
}

func (c *fakeConn) Disconnect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	return nil
}

func (c *fakeConn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeConn) ChannelID() snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

// recordingPublisher collects playback events.
type recordingPublisher struct {
	mu       sync.Mutex
	started  []domain.PlaybackStartedEvent
	finished []domain.PlaybackFinishedEvent
}

func (p *recordingPublisher) PublishPlaybackStarted(event domain.PlaybackStartedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, event)
}

func (p *recordingPublisher) PublishPlaybackFinished(event domain.PlaybackFinishedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = append(p.finished, event)
}

func (p *recordingPublisher) finishedEvents() []domain.PlaybackFinishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PlaybackFinishedEvent(nil), p.finished...)
}

// mockVoiceStateProvider is a mock implementation of ports.VoiceStateProvider.
type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

// mockTrackResolver is a mock implementation of ports.TrackResolver.
type mockTrackResolver struct {
	track   *domain.Track
	err     error
	queries []string
}

func (m *mockTrackResolver) Resolve(
	_ context.Context,
	query *domain.SearchQuery,
) (*domain.Track, error) {
	m.queries = append(m.queries, query.Identifier())
	if m.err != nil {
		return nil, m.err
	}
	return m.track, nil
}

// mockTrackSuggester is a mock implementation of ports.TrackSuggester.
type mockTrackSuggester struct {
	suggestions []ports.Suggestion
	err         error
	calls       int
}

func (m *mockTrackSuggester) Suggest(
	_ context.Context,
	_ string,
	limit int,
) ([]ports.Suggestion, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.suggestions) {
		return m.suggestions[:limit], nil
	}
	return m.suggestions, nil
}

// mockUserInfoProvider is a mock implementation of ports.UserInfoProvider.
type mockUserInfoProvider struct {
	names map[snowflake.ID]string
}

func (m *mockUserInfoProvider) GetUserInfo(_, userID snowflake.ID) (*ports.UserInfo, error) {
	name, ok := m.names[userID]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return &ports.UserInfo{DisplayName: name}, nil
}

// mockSoundCatalog is a mock implementation of ports.SoundCatalog.
type mockSoundCatalog struct {
	sounds []*domain.Sound
	err    error
}

func (m *mockSoundCatalog) List(filter string, limit int) ([]*domain.Sound, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Sound
	for _, s := range m.sounds {
		if len(out) == limit {
			break
		}
		if s.MatchesPrefix(filter) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSoundCatalog) Get(name string) (*domain.Sound, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.sounds {
		if s.DisplayName == name {
			return s, nil
		}
	}
	return nil, nil
}

func testTrack(title string) *domain.Track {
	return &domain.Track{
		ID:        domain.NewTrackID(),
		Title:     title,
		StreamURL: "https://media.example/" + title,
	}
}

// waitStarted returns the next track the transport started, or nil after
// the timeout.
func waitStarted(t *fakeTransport, timeout time.Duration) *domain.Track {
	select {
	case track := <-t.started:
		return track
	case <-time.After(timeout):
		return nil
	}
}
