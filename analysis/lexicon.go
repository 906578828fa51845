package analysis

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LexiconEntry maps one keyword to an emotion with a weight in (0,1].
type LexiconEntry struct {
	Emotion Emotion `yaml:"emotion"`
	Weight  float64 `yaml:"weight"`
}

// Lexicon is a keyword/weight table used for fast, failure-free emotion
// estimates. Scoring is stateless: the same text always yields the same
// estimate.
type Lexicon map[string]LexiconEntry

// lexiconFallbackCeiling caps the confidence of lexicon-only estimates so a
// degraded result is always distinguishable from a full judgment.
const lexiconFallbackCeiling = 0.5

// DefaultLexicon returns the built-in emergency-call keyword table.
func DefaultLexicon() Lexicon {
	return Lexicon{
		"scared":     {Emotion: EmotionFear, Weight: 0.9},
		"terrified":  {Emotion: EmotionFear, Weight: 0.95},
		"afraid":     {Emotion: EmotionFear, Weight: 0.85},
		"frightened": {Emotion: EmotionFear, Weight: 0.85},
		"help":       {Emotion: EmotionDistress, Weight: 0.8},
		"hurt":       {Emotion: EmotionDistress, Weight: 0.7},
		"bleeding":   {Emotion: EmotionDistress, Weight: 0.8},
		"trapped":    {Emotion: EmotionDistress, Weight: 0.85},
		"breathe":    {Emotion: EmotionDistress, Weight: 0.85},
		"dying":      {Emotion: EmotionDistress, Weight: 0.95},
		"emergency":  {Emotion: EmotionDistress, Weight: 0.75},
		"angry":      {Emotion: EmotionAnger, Weight: 0.7},
		"furious":    {Emotion: EmotionAnger, Weight: 0.8},
		"crying":     {Emotion: EmotionSadness, Weight: 0.6},
		"sad":        {Emotion: EmotionSadness, Weight: 0.6},
		"grief":      {Emotion: EmotionSadness, Weight: 0.7},
		"panic":      {Emotion: EmotionPanic, Weight: 0.95},
		"panicking":  {Emotion: EmotionPanic, Weight: 0.95},
		"hysterical": {Emotion: EmotionPanic, Weight: 0.9},
		"confused":   {Emotion: EmotionConfusion, Weight: 0.5},
		"lost":       {Emotion: EmotionConfusion, Weight: 0.45},
		"dizzy":      {Emotion: EmotionConfusion, Weight: 0.5},
	}
}

// LoadLexicon reads a keyword table from a YAML file of the form
//
//	scared: {emotion: fear, weight: 0.9}
//
// Entries with unknown emotions or weights outside (0,1] are rejected.
func LoadLexicon(path string) (Lexicon, error) {
	if path == "" {
		return nil, errors.New("LoadLexicon: path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadLexicon: read file: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(b, &lex); err != nil {
		return nil, fmt.Errorf("LoadLexicon: unmarshal: %w", err)
	}
	for word, entry := range lex {
		if !entry.Emotion.Valid() {
			return nil, fmt.Errorf("LoadLexicon: %q: unknown emotion %q", word, entry.Emotion)
		}
		if entry.Weight <= 0 || entry.Weight > 1 {
			return nil, fmt.Errorf("LoadLexicon: %q: weight %v out of (0,1]", word, entry.Weight)
		}
	}
	return lex, nil
}

// Score produces a quick emotion estimate from raw text. It never fails: a
// text with no lexicon hits scores neutral/low. The estimate's confidence is
// capped at the fallback ceiling.
func (l Lexicon) Score(text string, timestamp float64) EmotionAssessment {
	scores := make(map[Emotion]float64)
	hits := 0
	for _, tok := range tokenize(text) {
		entry, ok := l[tok]
		if !ok {
			continue
		}
		scores[entry.Emotion] += entry.Weight
		hits++
	}

	if hits == 0 {
		return EmotionAssessment{
			PrimaryEmotion: EmotionNeutral,
			Intensity:      IntensityLow,
			Confidence:     0.2,
			SourceModality: ModalityText,
			Timestamp:      timestamp,
			Reasoning:      "no lexicon keywords matched",
		}
	}

	primary, secondary := topTwoEmotions(scores)
	top := scores[primary]

	assessment := EmotionAssessment{
		PrimaryEmotion: primary,
		Intensity:      intensityFromScore(top),
		Confidence:     lexiconConfidence(hits),
		SourceModality: ModalityText,
		Timestamp:      timestamp,
		Reasoning:      fmt.Sprintf("lexicon matched %d keyword(s), strongest signal %s", hits, primary),
	}
	if secondary != "" && secondary != primary {
		assessment.SecondaryEmotion = secondary
	}
	return assessment
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
}

// topTwoEmotions returns the highest- and second-highest-scoring emotions,
// breaking ties alphabetically so scoring stays deterministic.
func topTwoEmotions(scores map[Emotion]float64) (Emotion, Emotion) {
	emotions := make([]Emotion, 0, len(scores))
	for e := range scores {
		emotions = append(emotions, e)
	}
	sort.Slice(emotions, func(i, j int) bool {
		if scores[emotions[i]] != scores[emotions[j]] {
			return scores[emotions[i]] > scores[emotions[j]]
		}
		return emotions[i] < emotions[j]
	})
	primary := emotions[0]
	var secondary Emotion
	if len(emotions) > 1 {
		secondary = emotions[1]
	}
	return primary, secondary
}

func intensityFromScore(score float64) Intensity {
	switch {
	case score >= 1.8:
		return IntensityExtreme
	case score >= 1.2:
		return IntensityHigh
	case score >= 0.6:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

func lexiconConfidence(hits int) float64 {
	c := 0.25 + 0.08*float64(hits)
	if c > lexiconFallbackCeiling {
		return lexiconFallbackCeiling
	}
	return c
}
