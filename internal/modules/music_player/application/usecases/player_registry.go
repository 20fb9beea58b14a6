package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
)

// PlayerRegistry holds at most one GuildPlayer per guild.
type PlayerRegistry struct {
	transport ports.VoiceTransport
	publisher ports.EventPublisher
	opts      PlayerOptions

	mu      sync.Mutex
	players map[snowflake.ID]*GuildPlayer
	closed  bool
}

// NewPlayerRegistry creates a new PlayerRegistry. Players it creates share
// the transport, the publisher and the options.
func NewPlayerRegistry(
	transport ports.VoiceTransport,
	publisher ports.EventPublisher,
	opts PlayerOptions,
) *PlayerRegistry {
	return &PlayerRegistry{
		transport: transport,
		publisher: publisher,
		opts:      opts,
		players:   make(map[snowflake.ID]*GuildPlayer),
	}
}

// GetOrCreate returns the guild's player, creating it if needed.
func (r *PlayerRegistry) GetOrCreate(guildID snowflake.ID) (*GuildPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrPlayerClosed
	}
	if p, ok := r.players[guildID]; ok {
		p.touch()
		return p, nil
	}

	p := NewGuildPlayer(guildID, r.transport, r.publisher, r.opts)
	r.players[guildID] = p
	slog.Debug("created guild player", "guild", guildID)
	return p, nil
}

// Get returns the guild's player, or nil if there is none.
func (r *PlayerRegistry) Get(guildID snowflake.ID) *GuildPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.players[guildID]
}

// Remove closes and forgets the guild's player.
func (r *PlayerRegistry) Remove(guildID snowflake.ID) {
	r.mu.Lock()
	p, ok := r.players[guildID]
	delete(r.players, guildID)
	r.mu.Unlock()

	if ok {
		p.Close()
	}
}

// Len returns the number of live players.
func (r *PlayerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.players)
}

// EvictIdle removes players that have been disconnected and idle for at
// least timeout. It returns how many were removed. The idle check and the
// removal happen under the registry lock, so a player handed out by
// GetOrCreate is never evicted before it is used.
func (r *PlayerRegistry) EvictIdle(now time.Time, timeout time.Duration) int {
	r.mu.Lock()
	var evicted []*GuildPlayer
	for guildID, p := range r.players {
		if p.IsIdle(now, timeout) {
			delete(r.players, guildID)
			evicted = append(evicted, p)
		}
	}
	r.mu.Unlock()

	for _, p := range evicted {
		p.Close()
		slog.Info("evicted idle guild player", "guild", p.GuildID())
	}
	return len(evicted)
}

// StartJanitor evicts idle players every interval until ctx is done.
func (r *PlayerRegistry) StartJanitor(ctx context.Context, interval, timeout time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				r.EvictIdle(now, timeout)
			}
		}
	}()
}

// Close closes every player. Later GetOrCreate calls fail.
func (r *PlayerRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	players := r.players
	r.players = make(map[snowflake.ID]*GuildPlayer)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range players {
		wg.Go(p.Close)
	}
	wg.Wait()
}
