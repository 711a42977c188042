// Package scoring defines the contract for scoring writing
// assessments and a deterministic heuristic implementation.
package scoring

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/okian/hireflow/internal/domain/model"
)

// Composite weights. Fixed per scorer version, sum to 1. The AI
// detection dimension contributes inverted: a high likelihood of
// machine-generated text lowers the composite.
const (
	weightReadability = 0.25
	weightWriting     = 0.30
	weightSEO         = 0.15
	weightEnglish     = 0.20
	weightAIDetection = 0.10
)

// Default heuristic configuration constants.
const (
	maxScore = 100.0
	// defaultMinWords is the floor below which sub-scores are scaled
	// down proportionally instead of dividing by near-zero counts.
	defaultMinWords = 40
)

// Input carries the assessment text and optional per-job settings
// into a scorer.
type Input struct {
	Content  string
	Settings *model.JobSettings
}

// Scorer computes a multi-dimensional score for assessment content.
// Implementations must be deterministic for a fixed version: the
// same content and settings always yield the same composite.
type Scorer interface {
	// Score computes an AIScoreRecord, honoring ctx for cancellation.
	// Backend failures surface as ErrUnavailable.
	Score(ctx context.Context, in Input) (model.AIScoreRecord, error)
}

// HeuristicScorer implements Scorer with pure text heuristics. It
// performs no I/O and never returns ErrUnavailable.
type HeuristicScorer struct {
	minWords int
}

// NewHeuristicScorer creates a heuristic scorer with configuration
// options.
func NewHeuristicScorer(opts ...Option) *HeuristicScorer {
	s := &HeuristicScorer{
		minWords: defaultMinWords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the five sub-scores and their weighted composite.
func (s *HeuristicScorer) Score(ctx context.Context, in Input) (model.AIScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.AIScoreRecord{}, err
	}

	st := analyze(in.Content)

	// Very short content degrades every dimension proportionally
	// rather than producing divide-by-zero artifacts.
	degrade := 1.0
	if st.words < s.minWords {
		degrade = float64(st.words) / float64(s.minWords)
	}

	var rec model.AIScoreRecord
	{
		score, fb := readability(st)
		rec.Readability = scaleDim(score, fb, degrade)
	}
	{
		score, fb := writingQuality(st)
		rec.WritingQuality = scaleDim(score, fb, degrade)
	}
	{
		score, fb := seo(st, in.Settings)
		rec.SEO = scaleDim(score, fb, degrade)
	}
	{
		score, fb := englishProficiency(st)
		rec.EnglishProficiency = scaleDim(score, fb, degrade)
	}
	rec.AIDetection = aiDetection(st)

	rec.CompositeScore = Composite(rec)
	return rec, nil
}

// Composite folds the five sub-scores into the single weighted
// aggregate that drives the stage transition.
func Composite(r model.AIScoreRecord) float64 {
	c := weightReadability*r.Readability.Score +
		weightWriting*r.WritingQuality.Score +
		weightSEO*r.SEO.Score +
		weightEnglish*r.EnglishProficiency.Score +
		weightAIDetection*(maxScore-r.AIDetection.Score)
	return round2(clamp(c))
}

// stats holds the token-level measurements shared by the dimension
// heuristics.
type stats struct {
	text        string
	words       int
	uniqueWords int
	sentences   int
	avgWordLen  float64
	avgSentLen  float64
	sentLenVar  float64
	stopRatio   float64
	repeatRatio float64
}

func analyze(content string) stats {
	st := stats{text: content}

	var lowerWords []string
	seen := make(map[string]struct{})
	totalLen := 0
	stops := 0
	for _, f := range strings.Fields(content) {
		w := strings.ToLower(strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if w == "" {
			continue
		}
		lowerWords = append(lowerWords, w)
		totalLen += len(w)
		seen[w] = struct{}{}
		if _, ok := stopwords[w]; ok {
			stops++
		}
	}
	if len(lowerWords) == 0 {
		return st
	}
	st.words = len(lowerWords)
	st.uniqueWords = len(seen)
	st.avgWordLen = float64(totalLen) / float64(st.words)
	st.stopRatio = float64(stops) / float64(st.words)

	lens := sentenceLengths(content)
	if len(lens) == 0 {
		lens = []int{st.words}
	}
	st.sentences = len(lens)
	sum := 0
	for _, l := range lens {
		sum += l
	}
	st.avgSentLen = float64(sum) / float64(st.sentences)
	var varSum float64
	for _, l := range lens {
		d := float64(l) - st.avgSentLen
		varSum += d * d
	}
	st.sentLenVar = varSum / float64(st.sentences)

	st.repeatRatio = trigramRepeatRatio(lowerWords)
	return st
}

func sentenceLengths(content string) []int {
	var lens []int
	count := 0
	for _, f := range strings.Fields(content) {
		count++
		if strings.ContainsAny(f, ".!?") {
			lens = append(lens, count)
			count = 0
		}
	}
	if count > 0 {
		lens = append(lens, count)
	}
	return lens
}

// trigramRepeatRatio measures how much of the text reuses identical
// three-word sequences, a cheap proxy for templated prose.
func trigramRepeatRatio(words []string) float64 {
	if len(words) < 4 {
		return 0
	}
	grams := make(map[string]int, len(words))
	total := 0
	for i := 0; i+3 <= len(words); i++ {
		grams[strings.Join(words[i:i+3], " ")]++
		total++
	}
	repeated := 0
	for _, n := range grams {
		if n > 1 {
			repeated += n - 1
		}
	}
	return float64(repeated) / float64(total)
}

func readability(st stats) (float64, []string) {
	if st.words == 0 {
		return 0, []string{"no readable content"}
	}
	// Flesch-style proxy: long sentences and long words read harder.
	score := clamp(115 - 1.6*st.avgSentLen - 9*(st.avgWordLen-4.2))
	var fb []string
	if st.avgSentLen > 28 {
		fb = append(fb, "sentences run long; aim for under 25 words")
	}
	if st.avgWordLen > 6.5 {
		fb = append(fb, "prefer plainer vocabulary where possible")
	}
	if len(fb) == 0 {
		fb = append(fb, "sentence length and vocabulary are easy to follow")
	}
	return score, fb
}

func writingQuality(st stats) (float64, []string) {
	if st.words == 0 {
		return 0, []string{"no content to evaluate"}
	}
	diversity := float64(st.uniqueWords) / float64(st.words)
	score := clamp(diversity * 155)
	var fb []string
	if diversity < 0.35 {
		fb = append(fb, "vocabulary is repetitive; vary word choice")
	}
	if st.sentences < 3 {
		fb = append(fb, "break the text into more sentences")
	}
	if len(fb) == 0 {
		fb = append(fb, "varied vocabulary and sentence structure")
	}
	return score, fb
}

func seo(st stats, settings *model.JobSettings) (float64, []string) {
	if st.words == 0 {
		return 0, []string{"no content to evaluate"}
	}
	keywords := keywordList(settings)
	if len(keywords) == 0 {
		// Without configured keywords fall back to a structural
		// signal: enough body length to index.
		score := clamp(40 + float64(st.words)/10)
		return score, []string{"no target keywords configured for this job"}
	}
	hits := 0
	text := strings.ToLower(st.text)
	var missing []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		} else {
			missing = append(missing, kw)
		}
	}
	score := clamp(float64(hits) / float64(len(keywords)) * maxScore)
	var fb []string
	if len(missing) > 0 {
		sort.Strings(missing)
		fb = append(fb, "missing keywords: "+strings.Join(missing, ", "))
	} else {
		fb = append(fb, "all target keywords covered")
	}
	return score, fb
}

func keywordList(settings *model.JobSettings) []string {
	if settings == nil || strings.TrimSpace(settings.Keywords) == "" {
		return nil
	}
	parts := strings.Split(settings.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.ToLower(strings.TrimSpace(p)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func englishProficiency(st stats) (float64, []string) {
	if st.words == 0 {
		return 0, []string{"no content to evaluate"}
	}
	// Natural English prose sits around a 35-55% function-word
	// ratio; drift in either direction reads as non-fluent.
	score := clamp(maxScore - math.Abs(st.stopRatio-0.45)*220)
	var fb []string
	if st.stopRatio < 0.25 {
		fb = append(fb, "prose reads as keyword-stuffed; use full sentences")
	}
	if st.stopRatio > 0.6 {
		fb = append(fb, "filler-heavy phrasing; tighten the wording")
	}
	if len(fb) == 0 {
		fb = append(fb, "fluent sentence construction")
	}
	return score, fb
}

func aiDetection(st stats) model.DimensionFeedback {
	if st.words == 0 {
		return model.DimensionFeedback{Score: 0, Feedback: []string{"no content to evaluate"}}
	}
	// Uniform sentence lengths plus heavy trigram reuse are the
	// tell-tale signals. Score is the likelihood the text is
	// machine-generated, so higher is worse for the composite.
	uniformity := clamp(maxScore - st.sentLenVar*4)
	likelihood := clamp(st.repeatRatio*300 + uniformity*0.3)
	fb := []string{"low repetition; reads as original writing"}
	if likelihood > 50 {
		fb = []string{"high phrase repetition and uniform cadence"}
	}
	return model.DimensionFeedback{Score: round2(likelihood), Feedback: fb}
}

func scaleDim(score float64, fb []string, degrade float64) model.DimensionFeedback {
	out := model.DimensionFeedback{Score: round2(clamp(score * degrade)), Feedback: fb}
	if degrade < 1 {
		out.Feedback = append(out.Feedback, "content is too short for a reliable signal")
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// stopwords is a small fixed function-word set used by the English
// proficiency heuristic.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "at": {}, "for": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {},
	"you": {}, "he": {}, "she": {}, "we": {}, "they": {}, "not": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "can": {}, "could": {}, "their": {},
	"there": {}, "which": {}, "when": {}, "what": {}, "who": {},
	"how": {}, "if": {}, "than": {}, "then": {}, "so": {}, "no": {},
	"my": {}, "your": {}, "his": {}, "her": {}, "our": {}, "more": {},
	"most": {}, "some": {}, "any": {}, "all": {}, "into": {},
	"about": {}, "also": {}, "because": {}, "while": {}, "where": {},
}
