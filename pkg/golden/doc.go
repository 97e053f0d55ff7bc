// Package golden runs the text analyzers (segmentation, keyword extraction,
// pattern detection, document classification) behind a single Engine and
// folds their outputs into a summary.
//
// Every analyzer is a pure function of its input and options. The only
// shared state is the optional per-analyzer cache, keyed by a content hash
// of the text plus the analyzer's configuration, so cached and uncached
// engines produce identical results.
package golden
