package quality

import "errors"

// ErrInvalidProfile is returned when a profile has non-positive fields.
var ErrInvalidProfile = errors.New("quality: invalid profile")

// Profile holds the render parameters for one tier.
type Profile struct {
	// CornerSegments is the tessellation of the rounded screen corners.
	CornerSegments int `yaml:"cornerSegments"`

	// Anisotropy is the anisotropic filtering level of screen textures.
	Anisotropy int `yaml:"anisotropy"`

	// TextureWidth and TextureHeight size the offscreen screen texture.
	TextureWidth  int `yaml:"textureWidth"`
	TextureHeight int `yaml:"textureHeight"`
}

// AspectRatio returns TextureWidth / TextureHeight.
func (p Profile) AspectRatio() float64 {
	if p.TextureHeight == 0 {
		return 0
	}
	return float64(p.TextureWidth) / float64(p.TextureHeight)
}

// Validate checks that every field is positive.
func (p Profile) Validate() error {
	if p.CornerSegments <= 0 || p.Anisotropy <= 0 || p.TextureWidth <= 0 || p.TextureHeight <= 0 {
		return ErrInvalidProfile
	}
	return nil
}

// Profiles is the profile of each tier, indexed by Tier.
type Profiles [3]Profile

// DefaultProfiles returns the stock profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		High:   {CornerSegments: 16, Anisotropy: 16, TextureWidth: 764, TextureHeight: 400},
		Medium: {CornerSegments: 8, Anisotropy: 8, TextureWidth: 512, TextureHeight: 256},
		Low:    {CornerSegments: 4, Anisotropy: 4, TextureWidth: 256, TextureHeight: 128},
	}
}

// ProfileFor returns the stock profile of t.
// Unknown tiers get the High profile.
func ProfileFor(t Tier) Profile {
	p := DefaultProfiles()
	if !t.Valid() {
		return p[High]
	}
	return p[t]
}
