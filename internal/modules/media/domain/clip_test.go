package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShareLink(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    string
		wantStart time.Duration
		wantErr   error
	}{
		{name: "youtu.be", url: "https://youtu.be/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{name: "youtu.be with seconds", url: "https://youtu.be/dQw4w9WgXcQ?t=42", wantID: "dQw4w9WgXcQ", wantStart: 42 * time.Second},
		{name: "youtu.be with si and t", url: "https://youtu.be/dQw4w9WgXcQ?si=abc&t=1m5s", wantID: "dQw4w9WgXcQ", wantStart: 65 * time.Second},
		{name: "shorts", url: "https://www.youtube.com/shorts/abcdefghijk", wantID: "abcdefghijk"},
		{name: "mobile shorts", url: "https://m.youtube.com/shorts/abcdefghijk?t=1h2m3s", wantID: "abcdefghijk", wantStart: time.Hour + 2*time.Minute + 3*time.Second},
		{name: "malformed t is ignored", url: "https://youtu.be/dQw4w9WgXcQ?t=abc", wantID: "dQw4w9WgXcQ"},
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantErr: ErrNotShareLink},
		{name: "short id", url: "https://youtu.be/short", wantErr: ErrNotShareLink},
		{name: "other host", url: "https://example.com/dQw4w9WgXcQ", wantErr: ErrNotShareLink},
		{name: "playlist", url: "https://youtu.be/dQw4w9WgXcQ?list=PL123", wantErr: ErrPlaylistLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := ParseShareLink(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, link.VideoID)
			assert.Equal(t, tt.wantStart, link.Start)
		})
	}
}

func TestParseStartParam(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Duration
		wantOK bool
	}{
		{raw: "", wantOK: false},
		{raw: "90", want: 90 * time.Second, wantOK: true},
		{raw: "2m", want: 2 * time.Minute, wantOK: true},
		{raw: "1M30S", want: 90 * time.Second, wantOK: true},
		{raw: "1m30", want: 90 * time.Second, wantOK: true},
		{raw: "m30", wantOK: false},
		{raw: "1x", wantOK: false},
		{raw: "99999999999999999999", want: maxTimestamp, wantOK: true},
		{raw: "9999999999h9999999999m", want: maxTimestamp, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseStartParam(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "45", want: 45 * time.Second},
		{in: "90", want: 90 * time.Second},
		{in: "1:30", want: 90 * time.Second},
		{in: " 01:02:03 ", want: time.Hour + 2*time.Minute + 3*time.Second},
		{in: "1:60", wantErr: true},
		{in: "1:60:00", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1:", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "9999999999", want: maxTimestamp},
		{in: "99999999999999999999999", want: maxTimestamp},
		{in: "9999999999:00:00", want: maxTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimestamp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClipLength_Default(t *testing.T) {
	got, err := ParseClipLength("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultClipLength, got)
}

func TestParseClipLength_HugeValueClampsToMax(t *testing.T) {
	length, err := ParseClipLength("9999999999")
	require.NoError(t, err)

	window, err := NewClipWindow(0, length, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, MaxClipLength, window.Length)
}

func TestParseShareLink_HugeStartIsBeyondEnd(t *testing.T) {
	link, err := ParseShareLink("https://youtu.be/dQw4w9WgXcQ?t=99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, maxTimestamp, link.Start)

	_, err = NewClipWindow(link.Start, DefaultClipLength, time.Hour)
	assert.ErrorIs(t, err, ErrStartBeyondEnd)
}

func TestNewClipWindow(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Duration
		length   time.Duration
		duration time.Duration
		want     ClipWindow
		wantErr  error
	}{
		{
			name:     "fits",
			start:    10 * time.Second,
			length:   30 * time.Second,
			duration: 5 * time.Minute,
			want:     ClipWindow{Start: 10 * time.Second, Length: 30 * time.Second},
		},
		{
			name:     "clamped to max",
			length:   10 * time.Minute,
			duration: time.Hour,
			want:     ClipWindow{Length: MaxClipLength},
		},
		{
			name:     "clamped to one second",
			length:   0,
			duration: time.Minute,
			want:     ClipWindow{Length: time.Second},
		},
		{
			name:     "trimmed to the end",
			start:    50 * time.Second,
			length:   30 * time.Second,
			duration: time.Minute,
			want:     ClipWindow{Start: 50 * time.Second, Length: 10 * time.Second},
		},
		{
			name:   "unknown duration",
			start:  time.Hour,
			length: 30 * time.Second,
			want:   ClipWindow{Start: time.Hour, Length: 30 * time.Second},
		},
		{
			name:     "start beyond end",
			start:    time.Minute,
			length:   30 * time.Second,
			duration: time.Minute,
			wantErr:  ErrStartBeyondEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClipWindow(tt.start, tt.length, tt.duration)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClipWindow_PostprocessorArgs(t *testing.T) {
	w := ClipWindow{Start: 65 * time.Second, Length: 30 * time.Second}
	assert.Equal(t, "ffmpeg:-ss 65 -t 30", w.PostprocessorArgs())
}
