package ports

import "github.com/sglre6355/mediabot/internal/modules/music_player/domain"

// SoundCatalog lists the soundboard entries.
type SoundCatalog interface {
	// List returns up to limit sounds whose display name contains filter.
	List(filter string, limit int) ([]*domain.Sound, error)

	// Get returns the sound with the given display name, or nil.
	Get(name string) (*domain.Sound, error)
}
