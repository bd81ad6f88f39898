package model

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// GrouperTuning configures how raw text fragments are grouped into chunks.
type GrouperTuning struct {
	YGap             float64  `yaml:"y_gap"`
	HeaderMinLetters int      `yaml:"header_min_letters"`
	HeaderMaxLength  int      `yaml:"header_max_length"`
	SectionMarkers   []string `yaml:"section_markers"`
}

// AnswerTuning configures line extraction, clustering and display of answers.
type AnswerTuning struct {
	BoilerplatePatterns []string `yaml:"boilerplate_patterns"`
	HeaderPattern       string   `yaml:"header_pattern"`
	MinLineLength       int      `yaml:"min_line_length"`
	LinesPerHit         int      `yaml:"lines_per_hit"`
	DedupThreshold      float64  `yaml:"dedup_threshold"`
	HitTextLimit        int      `yaml:"hit_text_limit"`
	BulletTextLimit     int      `yaml:"bullet_text_limit"`
	FallbackLineLength  int      `yaml:"fallback_line_length"`
	FallbackQuery       string   `yaml:"fallback_query"`
}

// RenderTuning configures page rasterization and highlighting.
type RenderTuning struct {
	Zoom         float64 `yaml:"zoom"`
	HighlightPad int     `yaml:"highlight_pad"`
	CropPad      int     `yaml:"crop_pad"`
	OutlineWidth int     `yaml:"outline_width"`
	FillAlpha    uint8   `yaml:"fill_alpha"`
}

// Tuning holds every heuristic of the pipeline that depends on the document corpus.
type Tuning struct {
	Grouper GrouperTuning `yaml:"grouper"`
	Answer  AnswerTuning  `yaml:"answer"`
	Render  RenderTuning  `yaml:"render"`
}

// DefaultTuning returns the tuning for single column policy documents.
func DefaultTuning() Tuning {
	return Tuning{
		Grouper: GrouperTuning{
			YGap:             18,
			HeaderMinLetters: 10,
			HeaderMaxLength:  120,
			SectionMarkers:   []string{"SECTION", "ENDORSEMENTS", "S1", "S2", "S3", "E9."},
		},
		Answer: AnswerTuning{
			BoilerplatePatterns: []string{
				`this document is synthetic`,
				`intended only for software demonstrations`,
				`not an insurance contract`,
				`provides no legal guidance`,
				`important notice`,
				`=+`,
			},
			HeaderPattern:      `(?i)^(S\d+|SECTION|\d+(\.\d+)?|E\d+(\.\d+)?)\b`,
			MinLineLength:      30,
			LinesPerHit:        2,
			DedupThreshold:     0.82,
			HitTextLimit:       800,
			BulletTextLimit:    240,
			FallbackLineLength: 140,
			FallbackQuery:      "general policy guidance",
		},
		Render: RenderTuning{
			Zoom:         2.0,
			HighlightPad: 6,
			CropPad:      60,
			OutlineWidth: 4,
			FillAlpha:    45,
		},
	}
}

// LoadTuning reads a YAML tuning file.
// A missing file yields the defaults, fields missing in the file keep their default value.
func LoadTuning(path string) (*Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return &tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &tuning, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return nil, err
	}

	return &tuning, nil
}
