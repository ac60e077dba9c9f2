// Package wordmatch demonstrates the rail combinators on one workload:
// matching the words of text sources against a list of lookup words with
// a pluggable similarity scorer.
//
// Highlights:
// - Matcher.Run: the workload under a chosen Strategy (batch, race, pipeline)
// - Aggregator: concurrency-safe deduplicating sink shared by every run
// - Scorer/LexScorer: the opaque distance boundary and a Levenshtein demo
// - ReadAll/Tokenize: the source collaborators
//
// The three strategies compose the identical steps through traverse,
// stream and pipeline respectively, trading ordering, failure reporting
// and streaming behavior against each other while producing the same
// deduplicated snapshot.
package wordmatch
