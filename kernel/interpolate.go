package kernel

import "math"

// Easing names accepted by Interpolate.
const (
	Linear        = "linear"
	EaseInQuad    = "easeInQuad"
	EaseOutQuad   = "easeOutQuad"
	EaseInOutQuad = "easeInOutQuad"
)

// Ease applies the named easing to t in [0,1].
// Unknown names fall back to linear.
func Ease(name string, t float64) float64 {
	switch name {
	case EaseInQuad:
		return t * t
	case EaseOutQuad:
		return t * (2 - t)
	case EaseInOutQuad:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	default:
		return t
	}
}

// Keyframe is a set of named values at a normalized time in [0,1].
type Keyframe struct {
	Time   float64            `msgpack:"time"`
	Values map[string]float64 `msgpack:"values"`
}

// InterpolateInput samples a looping keyframe track.
type InterpolateInput struct {
	Keyframes []Keyframe `msgpack:"keyframes"`
	Time      float64    `msgpack:"time"`
	Duration  float64    `msgpack:"duration"`
	Easing    string     `msgpack:"easing"`
}

// InterpolateOutput holds the sampled values.
type InterpolateOutput struct {
	Values map[string]float64 `msgpack:"values"`
}

// Interpolate samples the track at Time, looping every Duration.
//
// The bracketing keyframes are the latest at or before the normalized time
// and the earliest at or after it. Progress between them is eased and used
// to blend every value present in both; values only in the earlier frame
// are carried through unchanged.
func Interpolate(in InterpolateInput) (InterpolateOutput, error) {
	if len(in.Keyframes) == 0 {
		return InterpolateOutput{}, ErrNoKeyframes
	}
	if !(in.Duration > 0) {
		return InterpolateOutput{}, ErrInvalidDuration
	}

	nt := math.Mod(in.Time, in.Duration) / in.Duration
	if nt < 0 {
		nt++
	}

	prev := in.Keyframes[0]
	next := in.Keyframes[len(in.Keyframes)-1]
	for _, k := range in.Keyframes {
		if k.Time <= nt && k.Time > prev.Time {
			prev = k
		}
		if k.Time >= nt && k.Time < next.Time {
			next = k
		}
	}

	var progress float64
	if span := next.Time - prev.Time; span > 0 {
		progress = (nt - prev.Time) / span
	}
	t := Ease(in.Easing, progress)

	out := InterpolateOutput{Values: make(map[string]float64, len(prev.Values))}
	for key, a := range prev.Values {
		b, ok := next.Values[key]
		if !ok {
			out.Values[key] = a
			continue
		}
		out.Values[key] = a + (b-a)*t
	}
	return out, nil
}
