package answer

import (
	"context"
	"fmt"
	"regexp"

	"github.com/siherrmann/provenance/core/pipeline"
	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
)

// Synthesizer composes grounded answers from retrieved hits.
type Synthesizer struct {
	embedder    pipeline.Embedder
	tuning      model.AnswerTuning
	boilerplate []*regexp.Regexp
	header      *regexp.Regexp
}

// NewSynthesizer compiles the patterns of tuning.
func NewSynthesizer(embedder pipeline.Embedder, tuning model.AnswerTuning) (*Synthesizer, error) {
	s := &Synthesizer{
		embedder: embedder,
		tuning:   tuning,
	}

	for _, pattern := range tuning.BoilerplatePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("compile boilerplate pattern %q", pattern), err)
		}
		s.boilerplate = append(s.boilerplate, re)
	}

	if tuning.HeaderPattern != "" {
		re, err := regexp.Compile(tuning.HeaderPattern)
		if err != nil {
			return nil, helper.NewError("compile header pattern", err)
		}
		s.header = re
	}

	return s, nil
}

// Answer builds the answer to query from hits.
//
// Bullets are taken from the first maxBullets hits. Their informative lines
// are deduplicated and composed into the answer text. All hits are returned
// as sources.
func (s *Synthesizer) Answer(ctx context.Context, query string, hits []*model.RetrievedHit, maxBullets int) (*model.AnswerResult, error) {
	result := &model.AnswerResult{
		QueryUsed: query,
		Bullets:   []*model.AnswerBullet{},
		Sources:   []*model.RetrievedHit{},
	}

	if len(hits) == 0 {
		result.Answer = NoRelevantClauses
		return result, nil
	}

	for _, hit := range hits {
		if err := hit.Validate(); err != nil {
			return nil, err
		}
	}
	result.Sources = hits

	var candidates []Candidate
	for _, hit := range hits[:max(0, min(maxBullets, len(hits)))] {
		text := truncateRunes(hit.Text, s.tuning.HitTextLimit)
		bullet := model.NewAnswerBullet(hit, text)

		for _, line := range PickInformative(s.SplitLines(text), s.tuning.LinesPerHit) {
			candidates = append(candidates, Candidate{Line: line, Bullet: bullet})
		}

		display := Compact(s.FirstUsefulLine(text), s.tuning.BulletTextLimit)
		result.Bullets = append(result.Bullets, model.NewAnswerBullet(hit, display))
	}

	representatives, err := s.Cluster(ctx, candidates)
	if err != nil {
		return nil, err
	}

	result.Answer = Compose(query, representatives)

	return result, nil
}
