package infrastructure

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
	"layeh.com/gopus"
)

const (
	sampleRate  = 48000
	channels    = 2
	frameSize   = 960 // 20ms at 48kHz
	opusBitrate = 96000
)

// NativeTransport streams audio from the bot process itself: ffmpeg decodes
// to PCM, gopus encodes Opus frames and discordgo sends them.
type NativeTransport struct {
	session    *discordgo.Session
	ffmpegPath string
}

// NewNativeTransport creates a new NativeTransport.
func NewNativeTransport(session *discordgo.Session, ffmpegPath string) *NativeTransport {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &NativeTransport{
		session:    session,
		ffmpegPath: ffmpegPath,
	}
}

// Connect joins the voice channel. discordgo bounds the handshake to ten
// seconds and reconnects dropped voice sessions on its own.
func (t *NativeTransport) Connect(
	ctx context.Context,
	guildID, channelID snowflake.ID,
) (ports.VoiceConnection, error) {
	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	done := make(chan result, 1)

	go func() {
		vc, err := t.session.ChannelVoiceJoin(guildID.String(), channelID.String(), false, true)
		done <- result{vc: vc, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("failed to join voice channel: %w", r.err)
		}
		return &nativeConnection{transport: t, guildID: guildID, vc: r.vc}, nil
	case <-ctx.Done():
		go func() {
			if r := <-done; r.vc != nil {
				_ = r.vc.Disconnect()
			}
		}()
		return nil, fmt.Errorf("context cancelled while joining voice channel: %w", ctx.Err())
	}
}

// nativeConnection wraps a discordgo voice connection.
type nativeConnection struct {
	transport *NativeTransport
	guildID   snowflake.ID
	vc        *discordgo.VoiceConnection

	mu     sync.Mutex
	cancel context.CancelFunc // stops the running stream
}

func (c *nativeConnection) Play(
	ctx context.Context,
	track *domain.Track,
	onComplete func(error),
) error {
	if track.StreamURL == "" {
		return errors.New("track has no stream URL")
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %w", err)
	}
	encoder.SetBitrate(opusBitrate)

	streamCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(streamCtx, c.transport.ffmpegPath, ffmpegArgs(track.StreamURL)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to open ffmpeg output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		streamErr := c.stream(streamCtx, encoder, stdout)
		waitErr := cmd.Wait()
		stopped := streamCtx.Err() != nil
		cancel()

		switch {
		case stopped:
			onComplete(nil)
		case streamErr != nil:
			onComplete(streamErr)
		case waitErr != nil:
			onComplete(fmt.Errorf("ffmpeg: %w: %s", waitErr, strings.TrimSpace(stderr.String())))
		default:
			onComplete(nil)
		}
	}()

	return nil
}

// stream encodes PCM from r and sends it until r is exhausted or ctx is done.
func (c *nativeConnection) stream(ctx context.Context, encoder *gopus.Encoder, r io.Reader) error {
	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	if err := c.vc.Speaking(true); err != nil {
		return fmt.Errorf("failed to set speaking state: %w", err)
	}
	defer func() { _ = c.vc.Speaking(false) }()

	for {
		if _, err := io.ReadFull(r, pcmBuf); err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		decodePCM(pcmBuf, intBuf)
		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case c.vc.OpusSend <- opus:
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *nativeConnection) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return nil
}

func (c *nativeConnection) MoveTo(_ context.Context, channelID snowflake.ID) error {
	if err := c.vc.ChangeChannel(channelID.String(), false, true); err != nil {
		return fmt.Errorf("failed to move to voice channel: %w", err)
	}
	return nil
}

func (c *nativeConnection) Disconnect(_ context.Context) error {
	_ = c.Stop()
	if err := c.vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

func (c *nativeConnection) IsConnected() bool {
	c.vc.RLock()
	defer c.vc.RUnlock()
	return c.vc.Ready
}

func (c *nativeConnection) ChannelID() snowflake.ID {
	c.vc.RLock()
	channelID := c.vc.ChannelID
	c.vc.RUnlock()

	id, err := snowflake.Parse(channelID)
	if err != nil {
		return 0
	}
	return id
}

// ffmpegArgs builds the ffmpeg command line that decodes input to raw
// 48kHz stereo PCM on stdout.
func ffmpegArgs(input string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if isRemote(input) {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	return append(args,
		"-i", input,
		"-vn",
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"pipe:1",
	)
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// decodePCM converts little-endian 16-bit samples into dst.
func decodePCM(src []byte, dst []int16) {
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(src[i*2 : i*2+2]))
	}
}

// Ensure NativeTransport implements ports.VoiceTransport.
var (
	_ ports.VoiceTransport  = (*NativeTransport)(nil)
	_ ports.VoiceConnection = (*nativeConnection)(nil)
)
