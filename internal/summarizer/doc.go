// Package summarizer generates comprehensive repository summaries.
//
// A summary combines locally computed facts (totals, key components,
// file distributions) with generated prose for the open-ended parts:
// repository overview, per-file summaries, structure analysis, and
// recommendations.
//
// # Basic Usage
//
//	s := summarizer.New(summarizer.Options{
//	    Generator:  gen,
//	    OnProgress: func(stage string) { fmt.Println(stage) },
//	})
//
//	summary, err := s.Summarize(ctx, analysis)
//
// # Pipeline
//
//  1. Overview: one generation call over aggregate statistics and the
//     ten longest files.
//  2. File summaries: the fifty most important files by ranking score,
//     summarized concurrently by a bounded worker pool, results in rank
//     order.
//  3. Structure analysis: one call over the directory tree JSON and the
//     file-type distribution.
//  4. Key components: computed locally from directory groupings, no
//     generation involved.
//  5. Recommendations: one call over repository statistics.
//
// # Degradation
//
// Generation failures never fail the summary. Each part degrades to a
// fixed placeholder string and the pipeline continues; the returned
// error is reserved for a missing analysis or context cancellation.
package summarizer
