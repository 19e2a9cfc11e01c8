// Package colors picks a theme color pair from a post's cover image and writes it
// into the post's front matter.
package colors

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sikfilm/site/pkg/utils"
	"golang.org/x/image/draw"
)

const (
	Black = "#000000"
	White = "#ffffff"
)

// Pair is a background color and the text color to draw on it.
type Pair struct {
	Background string
	Foreground string
}

type sample struct{ r, g, b uint8 }

type bucket struct {
	count      int
	sumR, sumG float64
	sumB       float64
}

func (b *bucket) add(s sample) {
	b.count++
	b.sumR += float64(s.r)
	b.sumG += float64(s.g)
	b.sumB += float64(s.b)
}

func (b *bucket) mean() colorful.Color {
	n := float64(b.count) * 255
	return colorful.Color{R: b.sumR / n, G: b.sumG / n, B: b.sumB / n}
}

// Extract computes the theme pair for img. Identical pixels and parameters always
// give the identical pair.
func Extract(img image.Image, p Params) Pair {
	samples := downsample(img, p.GridSize)

	candidates := make(map[int]*bucket)
	all := make(map[int]*bucket)
	for _, s := range samples {
		key := bucketKey(s, p.BucketWidth)
		addTo(all, key, s)
		_, sat, light := colorful.Color{R: float64(s.r) / 255, G: float64(s.g) / 255, B: float64(s.b) / 255}.Hsl()
		if light < p.MinLightness || light > p.MaxLightness || sat < p.MinSaturation {
			continue
		}
		addTo(candidates, key, s)
	}

	chosen, ok := bestScored(candidates, p)
	if !ok {
		chosen, ok = mostPopulated(all)
	}
	if !ok {
		chosen = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}

	bg := normalize(chosen, p).Hex()
	return Pair{Background: bg, Foreground: Foreground(bg, p.LumaThreshold)}
}

func addTo(m map[int]*bucket, key int, s sample) {
	b, ok := m[key]
	if !ok {
		b = &bucket{}
		m[key] = b
	}
	b.add(s)
}

// downsample resamples img onto a size x size grid and returns the opaque samples.
func downsample(img image.Image, size int) []sample {
	if img == nil || img.Bounds().Empty() || size <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	out := make([]sample, 0, size*size)
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] == 0 {
			continue
		}
		out = append(out, sample{dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]})
	}
	return out
}

func bucketKey(s sample, width int) int {
	per := 256/width + 1
	r, g, b := int(s.r)/width, int(s.g)/width, int(s.b)/width
	return (r*per+g)*per + b
}

func sortedKeys(m map[int]*bucket) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func bestScored(buckets map[int]*bucket, p Params) (colorful.Color, bool) {
	var best colorful.Color
	bestScore := math.Inf(-1)
	found := false
	for _, k := range sortedKeys(buckets) {
		b := buckets[k]
		c := b.mean()
		_, s, l := c.Hsl()
		score := Score(s, l, b.count, p)
		if score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

func mostPopulated(buckets map[int]*bucket) (colorful.Color, bool) {
	var best colorful.Color
	bestCount := 0
	for _, k := range sortedKeys(buckets) {
		if b := buckets[k]; b.count > bestCount {
			best, bestCount = b.mean(), b.count
		}
	}
	return best, bestCount > 0
}

// Score rates a bucket whose mean color has saturation s and lightness l.
func Score(s, l float64, count int, p Params) float64 {
	return (p.SaturationWeight*saturationTerm(s, p) + p.LightnessWeight*lightnessTerm(l)) *
		math.Pow(float64(count), p.FrequencyExponent)
}

func saturationTerm(s float64, p Params) float64 {
	switch {
	case s < p.SaturationPeakLow:
		return s / p.SaturationPeakLow
	case s <= p.SaturationPeakHigh:
		return 1
	case s <= p.SaturationPenaltyStart:
		t := (s - p.SaturationPeakHigh) / (p.SaturationPenaltyStart - p.SaturationPeakHigh)
		return 1 - t*(1-p.SaturationPenaltyValue)
	default:
		return math.Max(0, p.SaturationPenaltyValue-p.SaturationPenaltySlope*(s-p.SaturationPenaltyStart))
	}
}

func lightnessTerm(l float64) float64 {
	return 1 - 2*math.Abs(l-0.5)
}

func normalize(c colorful.Color, p Params) colorful.Color {
	h, s, l := c.Hsl()
	s = utils.Clamp(s, p.ClampSaturationMin, p.ClampSaturationMax)
	l = utils.Clamp(l, p.ClampLightnessMin, p.ClampLightnessMax)
	return colorful.Hsl(h, s, l).Clamped()
}

// Luma is the YIQ brightness of an 8-bit color, in [0, 255].
func Luma(r, g, b uint8) float64 {
	return (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
}

// Foreground returns black for backgrounds at or above threshold luma, white
// otherwise. An unparseable hex gets white.
func Foreground(hex string, threshold float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return White
	}
	r, g, b := c.RGB255()
	if Luma(r, g, b) >= threshold {
		return Black
	}
	return White
}
