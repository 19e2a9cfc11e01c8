package colors

import "fmt"

// Params holds the tunables of the extraction heuristic.
type Params struct {
	GridSize    int `yaml:"grid_size"`
	BucketWidth int `yaml:"bucket_width"`

	MinLightness  float64 `yaml:"min_lightness"`
	MaxLightness  float64 `yaml:"max_lightness"`
	MinSaturation float64 `yaml:"min_saturation"`

	SaturationWeight  float64 `yaml:"saturation_weight"`
	LightnessWeight   float64 `yaml:"lightness_weight"`
	FrequencyExponent float64 `yaml:"frequency_exponent"`

	// The saturation term rises to 1 at SaturationPeakLow, stays there until
	// SaturationPeakHigh, eases to SaturationPenaltyValue at SaturationPenaltyStart
	// and then drops by SaturationPenaltySlope per unit.
	SaturationPeakLow      float64 `yaml:"saturation_peak_low"`
	SaturationPeakHigh     float64 `yaml:"saturation_peak_high"`
	SaturationPenaltyStart float64 `yaml:"saturation_penalty_start"`
	SaturationPenaltyValue float64 `yaml:"saturation_penalty_value"`
	SaturationPenaltySlope float64 `yaml:"saturation_penalty_slope"`

	ClampSaturationMin float64 `yaml:"clamp_saturation_min"`
	ClampSaturationMax float64 `yaml:"clamp_saturation_max"`
	ClampLightnessMin  float64 `yaml:"clamp_lightness_min"`
	ClampLightnessMax  float64 `yaml:"clamp_lightness_max"`

	LumaThreshold float64 `yaml:"luma_threshold"`
}

// DefaultParams returns the stock heuristic.
func DefaultParams() Params {
	return Params{
		GridSize:               50,
		BucketWidth:            32,
		MinLightness:           0.2,
		MaxLightness:           0.8,
		MinSaturation:          0.15,
		SaturationWeight:       0.6,
		LightnessWeight:        0.4,
		FrequencyExponent:      0.5,
		SaturationPeakLow:      0.3,
		SaturationPeakHigh:     0.6,
		SaturationPenaltyStart: 0.7,
		SaturationPenaltyValue: 0.8,
		SaturationPenaltySlope: 2,
		ClampSaturationMin:     0.2,
		ClampSaturationMax:     0.6,
		ClampLightnessMin:      0.3,
		ClampLightnessMax:      0.7,
		LumaThreshold:          128,
	}
}

// Validate reports parameter combinations the heuristic cannot work with.
func (p Params) Validate() error {
	if p.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %d", p.GridSize)
	}
	if p.BucketWidth <= 0 || p.BucketWidth > 256 {
		return fmt.Errorf("bucket_width must be in [1, 256], got %d", p.BucketWidth)
	}
	if p.MinLightness > p.MaxLightness {
		return fmt.Errorf("min_lightness %.2f exceeds max_lightness %.2f", p.MinLightness, p.MaxLightness)
	}
	if p.ClampSaturationMin > p.ClampSaturationMax {
		return fmt.Errorf("clamp_saturation_min %.2f exceeds clamp_saturation_max %.2f", p.ClampSaturationMin, p.ClampSaturationMax)
	}
	if p.ClampLightnessMin > p.ClampLightnessMax {
		return fmt.Errorf("clamp_lightness_min %.2f exceeds clamp_lightness_max %.2f", p.ClampLightnessMin, p.ClampLightnessMax)
	}
	if p.SaturationPeakLow <= 0 || p.SaturationPeakLow > p.SaturationPeakHigh || p.SaturationPeakHigh >= p.SaturationPenaltyStart {
		return fmt.Errorf("saturation curve needs 0 < peak_low <= peak_high < penalty_start")
	}
	return nil
}
