package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestPlaybackService_Skip(t *testing.T) {
	guildID := snowflake.ID(1)

	tests := []struct {
		name        string
		tracks      []string
		wantErr     error
		wantSkipped string
		wantNext    string
	}{
		{
			name:    "no player",
			wantErr: ErrNotPlaying,
		},
		{
			name:        "skip with next track",
			tracks:      []string{"a", "b"},
			wantSkipped: "a",
			wantNext:    "b",
		},
		{
			name:        "skip last track",
			tracks:      []string{"a"},
			wantSkipped: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newFakeTransport(0)
			registry := NewPlayerRegistry(transport, nil, PlayerOptions{})
			defer registry.Close()
			service := NewPlaybackService(registry)

			if len(tt.tracks) > 0 {
				player, _ := registry.GetOrCreate(guildID)
				if err := player.EnsureConnected(context.Background(), snowflake.ID(4)); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				for _, title := range tt.tracks {
					if _, err := player.Enqueue(testTrack(title)); err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
				}
				if waitStarted(transport, waitFor) == nil {
					t.Fatal("expected playback to start")
				}
			}

			output, err := service.Skip(SkipInput{GuildID: guildID})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.SkippedTrack.Title != tt.wantSkipped {
				t.Errorf("expected skipped %q, got %q", tt.wantSkipped, output.SkippedTrack.Title)
			}
			switch {
			case tt.wantNext == "" && output.NextTrack != nil:
				t.Errorf("expected no next track, got %q", output.NextTrack.Title)
			case tt.wantNext != "" && (output.NextTrack == nil || output.NextTrack.Title != tt.wantNext):
				t.Errorf("expected next track %q, got %v", tt.wantNext, output.NextTrack)
			}
		})
	}
}

func TestPlaybackService_Stop(t *testing.T) {
	guildID := snowflake.ID(1)

	t.Run("idle player", func(t *testing.T) {
		registry := NewPlayerRegistry(newFakeTransport(0), nil, PlayerOptions{})
		defer registry.Close()
		service := NewPlaybackService(registry)

		if _, err := registry.GetOrCreate(guildID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := service.Stop(StopInput{GuildID: guildID}); !errors.Is(err, ErrNotPlaying) {
			t.Errorf("expected error %v, got %v", ErrNotPlaying, err)
		}
	})

	t.Run("clears queue", func(t *testing.T) {
		transport := newFakeTransport(0)
		registry := NewPlayerRegistry(transport, nil, PlayerOptions{})
		defer registry.Close()
		service := NewPlaybackService(registry)

		player, _ := registry.GetOrCreate(guildID)
		if err := player.EnsureConnected(context.Background(), snowflake.ID(4)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, title := range []string{"a", "b", "c"} {
			if _, err := player.Enqueue(testTrack(title)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if waitStarted(transport, waitFor) == nil {
			t.Fatal("expected playback to start")
		}

		output, err := service.Stop(StopInput{GuildID: guildID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Cleared != 2 || !output.StoppedCurrent {
			t.Errorf("expected 2 cleared and current stopped, got %+v", output)
		}
		if !player.Snapshot().IsEmpty() {
			t.Error("expected empty player after stop")
		}
	})
}
