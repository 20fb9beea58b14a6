package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// syncSubscriber delivers events synchronously.
type syncSubscriber struct {
	started  []func(context.Context, domain.PlaybackStartedEvent)
	finished []func(context.Context, domain.PlaybackFinishedEvent)
}

func (s *syncSubscriber) OnPlaybackStarted(h func(context.Context, domain.PlaybackStartedEvent)) {
	s.started = append(s.started, h)
}

func (s *syncSubscriber) OnPlaybackFinished(h func(context.Context, domain.PlaybackFinishedEvent)) {
	s.finished = append(s.finished, h)
}

func (s *syncSubscriber) start(e domain.PlaybackStartedEvent) {
	for _, h := range s.started {
		h(context.Background(), e)
	}
}

func (s *syncSubscriber) finish(e domain.PlaybackFinishedEvent) {
	for _, h := range s.finished {
		h(context.Background(), e)
	}
}

// mockNotifier is a test double for ports.NotificationSender.
type mockNotifier struct {
	mu                sync.Mutex
	sent              []*ports.NowPlayingInfo
	deletedMessages   []snowflake.ID
	sendNowPlayingErr error
	lastMessageID     snowflake.ID
}

func (m *mockNotifier) SendNowPlaying(
	_ snowflake.ID,
	info *ports.NowPlayingInfo,
) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendNowPlayingErr != nil {
		return 0, m.sendNowPlayingErr
	}
	m.sent = append(m.sent, info)
	m.lastMessageID++
	return m.lastMessageID, nil
}

func (m *mockNotifier) DeleteMessage(_ snowflake.ID, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedMessages = append(m.deletedMessages, messageID)
	return nil
}

type mockUserInfoProvider struct {
	info *ports.UserInfo
	err  error
}

func (m *mockUserInfoProvider) GetUserInfo(_, _ snowflake.ID) (*ports.UserInfo, error) {
	return m.info, m.err
}

func mockTrack(title string) *domain.Track {
	return &domain.Track{
		ID:                    domain.NewTrackID(),
		Title:                 title,
		Artist:                "Artist",
		Duration:              3 * time.Minute,
		StreamURL:             "https://media.example/" + title,
		RequesterID:           snowflake.ID(123),
		NotificationChannelID: snowflake.ID(200),
	}
}

func TestNotificationEventHandler_SendsAndDeletes(t *testing.T) {
	guildID := snowflake.ID(1)
	subscriber := &syncSubscriber{}
	notifier := &mockNotifier{}
	userInfo := &mockUserInfoProvider{
		info: &ports.UserInfo{DisplayName: "alice", AvatarURL: "https://cdn.example/a.png"},
	}

	handler := NewNotificationEventHandler(notifier, subscriber, userInfo)
	handler.Start()

	track := mockTrack("a")
	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: track})

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 now playing message, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.Title != "a" || sent.Duration != "03:00" {
		t.Errorf("unexpected message content %+v", sent)
	}
	if sent.RequesterName != "alice" || sent.RequesterAvatarURL == "" {
		t.Errorf("expected requester info, got %+v", sent)
	}

	subscriber.finish(domain.PlaybackFinishedEvent{GuildID: guildID, Track: track})

	if len(notifier.deletedMessages) != 1 || notifier.deletedMessages[0] != 1 {
		t.Errorf("expected message 1 to be deleted, got %v", notifier.deletedMessages)
	}
}

func TestNotificationEventHandler_IgnoresFinishForOtherTrack(t *testing.T) {
	guildID := snowflake.ID(1)
	subscriber := &syncSubscriber{}
	notifier := &mockNotifier{}

	handler := NewNotificationEventHandler(notifier, subscriber, nil)
	handler.Start()

	current := mockTrack("current")
	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: current})
	subscriber.finish(domain.PlaybackFinishedEvent{GuildID: guildID, Track: mockTrack("stale")})

	if len(notifier.deletedMessages) != 0 {
		t.Errorf("expected no deletions, got %v", notifier.deletedMessages)
	}
	if notifier.sent[0].RequesterName != "Unknown" {
		t.Errorf("expected fallback requester name, got %q", notifier.sent[0].RequesterName)
	}
}

func TestNotificationEventHandler_ReplacesMissedFinish(t *testing.T) {
	guildID := snowflake.ID(1)
	subscriber := &syncSubscriber{}
	notifier := &mockNotifier{}

	handler := NewNotificationEventHandler(notifier, subscriber, nil)
	handler.Start()

	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: mockTrack("a")})
	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: mockTrack("b")})

	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(notifier.sent))
	}
	if len(notifier.deletedMessages) != 1 || notifier.deletedMessages[0] != 1 {
		t.Errorf("expected first message to be replaced, got %v", notifier.deletedMessages)
	}
}

func TestNotificationEventHandler_SkipsWithoutChannelOrOnSendError(t *testing.T) {
	guildID := snowflake.ID(1)
	subscriber := &syncSubscriber{}
	notifier := &mockNotifier{}

	handler := NewNotificationEventHandler(notifier, subscriber, nil)
	handler.Start()

	noChannel := mockTrack("quiet")
	noChannel.NotificationChannelID = 0
	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: noChannel})
	if len(notifier.sent) != 0 {
		t.Errorf("expected no message without a channel, got %d", len(notifier.sent))
	}

	notifier.sendNowPlayingErr = errors.New("missing access")
	track := mockTrack("a")
	subscriber.start(domain.PlaybackStartedEvent{GuildID: guildID, Track: track})
	subscriber.finish(domain.PlaybackFinishedEvent{GuildID: guildID, Track: track})
	if len(notifier.deletedMessages) != 0 {
		t.Errorf("expected nothing to delete, got %v", notifier.deletedMessages)
	}
}
