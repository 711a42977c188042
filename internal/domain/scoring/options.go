// Package scoring defines the contract for scoring writing
// assessments and a deterministic heuristic implementation.
package scoring

// Option applies a configuration option to the HeuristicScorer.
type Option func(*HeuristicScorer)

// WithMinWords sets the word count below which sub-scores degrade
// proportionally.
func WithMinWords(n int) Option {
	return func(s *HeuristicScorer) {
		if n > 0 {
			s.minWords = n
		}
	}
}
