package domain

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceBandcamp   TrackSource = "bandcamp"
	TrackSourceSoundboard TrackSource = "soundboard"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource converts a source or extractor name to a TrackSource.
// yt-dlp extractor keys ("Youtube", "youtube:tab") and Lavalink source
// names ("youtube") both map to the same value.
func ParseTrackSource(name string) TrackSource {
	switch normalizeSourceName(name) {
	case "youtube":
		return TrackSourceYouTube
	case "soundcloud":
		return TrackSourceSoundCloud
	case "twitch":
		return TrackSourceTwitch
	case "bandcamp":
		return TrackSourceBandcamp
	case "soundboard":
		return TrackSourceSoundboard
	default:
		return TrackSourceOther
	}
}

// Color returns the embed accent color for the source.
func (s TrackSource) Color() int {
	switch s {
	case TrackSourceYouTube:
		return 0xFF0000
	case TrackSourceSoundCloud:
		return 0xFF5500
	case TrackSourceTwitch:
		return 0x9146FF
	case TrackSourceBandcamp:
		return 0x629AA9
	case TrackSourceSoundboard:
		return 0xF1C40F
	default:
		return 0x08C404
	}
}

func normalizeSourceName(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == ':' {
			break
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}
