package wordmatch

// Scorer is the distance-computation boundary: it scores every candidate
// against one lookup word and keeps those at or above threshold. A scorer
// either produces its whole result set or fails entirely; it never
// returns a partial one.
type Scorer interface {
	Score(candidates []string, lookup string, threshold float64) ([]Match, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(candidates []string, lookup string, threshold float64) ([]Match, error)

func (f ScorerFunc) Score(candidates []string, lookup string, threshold float64) ([]Match, error) {
	return f(candidates, lookup, threshold)
}

// LexScorer scores by normalized Levenshtein similarity. It is the demo
// metric; any Scorer slots in behind the same boundary.
type LexScorer struct{}

func (LexScorer) Score(candidates []string, lookup string, threshold float64) ([]Match, error) {
	matches := make([]Match, 0)
	for _, candidate := range candidates {
		score := Similarity(candidate, lookup)
		if score >= threshold {
			matches = append(matches, Match{Candidate: candidate, Lookup: lookup, Score: score})
		}
	}
	return matches, nil
}

// Similarity maps two words onto [0, 1]: identical words score 1, words
// sharing nothing score 0. It is 1 - distance/len of the longer word,
// counted in runes.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein is the classic single-row edit distance.
func levenshtein(a, b []rune) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(b); j++ {
			up := row[j]

			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(up+1, row[j-1]+1, diag+cost)

			diag = up
		}
	}
	return row[len(b)]
}
