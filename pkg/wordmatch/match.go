package wordmatch

// Match pairs a candidate word from a source with the lookup word it
// resembles. Identity is the (Candidate, Lookup) pair; Score records how
// close the scorer judged them and is never part of the identity.
type Match struct {
	Candidate string
	Lookup    string
	Score     float64
}

// Key returns the identity pair.
func (m Match) Key() (candidate, lookup string) {
	return m.Candidate, m.Lookup
}
