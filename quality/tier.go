// Package quality maps camera distance to a discrete quality tier and the
// render parameters of each tier.
package quality

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned by ParseTier for unrecognized names.
var ErrUnknownTier = errors.New("quality: unknown tier")

// Tier is a level of detail. Lower values mean more detail.
type Tier int

const (
	// High is used close to the scene.
	High Tier = iota
	// Medium is used at mid range.
	Medium
	// Low is used far away.
	Low
)

// Tiers lists all tiers from most to least detailed.
var Tiers = [...]Tier{High, Medium, Low}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= High && t <= Low
}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return High, nil
	case "MEDIUM":
		return Medium, nil
	case "LOW":
		return Low, nil
	}
	return High, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
