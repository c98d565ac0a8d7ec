package stroke

import (
	"math"
	"math/rand/v2"
)

// Visual tuning for segments. None of these affect scoring.
const (
	MinWidth       = 3.0
	MaxWidth       = 10.0
	LineWidth      = 6.0
	HueSweepPoints = 200.0
	GradientSpan   = 40.0
	ParticleChance = 0.15

	maxStep           = 20.0
	widthPerStep      = 0.2
	particleSpread    = 5.0
	particleHueSpread = 30.0
	particleMinSize   = 1.0
	particleSizeRange = 3.0
)

// Particle is a decorative dot emitted next to a segment.
type Particle struct {
	At   Point
	Size float64
	Hue  float64
}

// Style carries the per-segment rendering parameters.
type Style struct {
	Width    float64
	Hue      float64 // gradient start, degrees in [0,360)
	HueEnd   float64 // gradient end, degrees in [0,360)
	Particle *Particle
}

// Styler derives segment styles. Its random source only drives particle
// emission, so two Stylers differ in decoration and nothing else.
type Styler struct {
	rng    *rand.Rand
	chance float64
}

// NewStyler returns a Styler drawing from src. A nil src seeds a fresh PCG.
func NewStyler(src rand.Source) *Styler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Styler{rng: rand.New(src), chance: ParticleChance}
}

// WithoutParticles disables particle emission, e.g. for redraws.
func (st *Styler) WithoutParticles() *Styler {
	return &Styler{rng: st.rng, chance: 0}
}

// Style returns the visual parameters for seg.
func (st *Styler) Style(seg Segment) Style {
	s := BaseStyle(seg)
	if seg.Kind != Quad || st.chance <= 0 {
		return s
	}
	if st.rng.Float64() < st.chance {
		s.Particle = &Particle{
			At: Point{
				X: seg.Ctrl.X + (st.rng.Float64()-0.5)*2*particleSpread,
				Y: seg.Ctrl.Y + (st.rng.Float64()-0.5)*2*particleSpread,
			},
			Size: st.rng.Float64()*particleSizeRange + particleMinSize,
			Hue:  wrapHue(s.Hue + (st.rng.Float64()-0.5)*2*particleHueSpread),
		}
	}
	return s
}

// BaseStyle is the deterministic part of a segment's style.
//
// Width shrinks as the pointer speeds up and the hue sweeps the colour
// wheel once every HueSweepPoints points.
func BaseStyle(seg Segment) Style {
	if seg.Kind == Line {
		return Style{Width: LineWidth, Hue: 0, HueEnd: GradientSpan}
	}
	speed := math.Min(seg.Step, maxStep)
	hue := wrapHue(float64(seg.Index) / HueSweepPoints * 360)
	return Style{
		Width:  math.Max(MinWidth, MaxWidth-speed*widthPerStep),
		Hue:    hue,
		HueEnd: wrapHue(hue + GradientSpan),
	}
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
