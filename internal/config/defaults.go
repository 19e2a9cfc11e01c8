package config

import (
	"time"

	"github.com/sikfilm/site/internal/colors"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Content.PostsDir == "" {
		cfg.Content.PostsDir = "./content/posts"
	}
	if cfg.Content.PublicDir == "" {
		cfg.Content.PublicDir = "./public"
	}
	if cfg.Content.Extension == "" {
		cfg.Content.Extension = ".mdx"
	}
	if cfg.Content.WordsPerMinute == 0 {
		cfg.Content.WordsPerMinute = 200
	}
	if cfg.Content.Timezone == "" {
		cfg.Content.Timezone = "Asia/Shanghai"
	}
	if cfg.Content.RelatedLimit == 0 {
		cfg.Content.RelatedLimit = 3
	}
	if cfg.Content.LatestLimit == 0 {
		cfg.Content.LatestLimit = 5
	}
	applyColorDefaults(&cfg.Colors.Params)
	if cfg.Colors.FetchTimeout == 0 {
		cfg.Colors.FetchTimeout = colors.DefaultFetchTimeout
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/site.db"
	}
	if cfg.Storage.ReactionKinds == 0 {
		cfg.Storage.ReactionKinds = 4
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 400 * time.Millisecond
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "SIKFilm"
	}
	if cfg.Site.URL == "" {
		cfg.Site.URL = "https://sikfilm.com"
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "zh-CN"
	}
	if cfg.Site.HeroPhotos == nil {
		cfg.Site.HeroPhotos = []string{}
	}
	if cfg.Site.Projects == nil {
		cfg.Site.Projects = []Project{}
	}
	if cfg.Site.Resume == nil {
		cfg.Site.Resume = []ResumeItem{}
	}
}

func applyColorDefaults(p *colors.Params) {
	d := colors.DefaultParams()
	if p.GridSize == 0 {
		p.GridSize = d.GridSize
	}
	if p.BucketWidth == 0 {
		p.BucketWidth = d.BucketWidth
	}
	floats := []struct {
		v *float64
		d float64
	}{
		{&p.MinLightness, d.MinLightness},
		{&p.MaxLightness, d.MaxLightness},
		{&p.MinSaturation, d.MinSaturation},
		{&p.SaturationWeight, d.SaturationWeight},
		{&p.LightnessWeight, d.LightnessWeight},
		{&p.FrequencyExponent, d.FrequencyExponent},
		{&p.SaturationPeakLow, d.SaturationPeakLow},
		{&p.SaturationPeakHigh, d.SaturationPeakHigh},
		{&p.SaturationPenaltyStart, d.SaturationPenaltyStart},
		{&p.SaturationPenaltyValue, d.SaturationPenaltyValue},
		{&p.SaturationPenaltySlope, d.SaturationPenaltySlope},
		{&p.ClampSaturationMin, d.ClampSaturationMin},
		{&p.ClampSaturationMax, d.ClampSaturationMax},
		{&p.ClampLightnessMin, d.ClampLightnessMin},
		{&p.ClampLightnessMax, d.ClampLightnessMax},
		{&p.LumaThreshold, d.LumaThreshold},
	}
	for _, f := range floats {
		if *f.v == 0 {
			*f.v = f.d
		}
	}
}
