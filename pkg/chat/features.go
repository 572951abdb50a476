package chat

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Features tracks which paid generation kinds are still available. Both
// flags start true and transition one-way to false on a billing-classified
// failure; they never recover within the process lifetime.
type Features struct {
	mu       sync.Mutex
	imageGen bool
	videoGen bool
}

func NewFeatures() *Features {
	return &Features{imageGen: true, videoGen: true}
}

func (f *Features) ImageGenAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageGen
}

func (f *Features) VideoGenAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videoGen
}

func (f *Features) DisableImageGen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageGen {
		log.Warn().Msg("image generation disabled for the rest of the process")
	}
	f.imageGen = false
}

func (f *Features) DisableVideoGen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.videoGen {
		log.Warn().Msg("video generation disabled for the rest of the process")
	}
	f.videoGen = false
}
