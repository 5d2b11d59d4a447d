// Package quality computes per-unit quality metrics of a spike sorting
// against its recording: channel noise levels, unit templates, template
// signal-to-noise ratio and threshold curation.
//
// Metrics read traces through [recording.Source], so they are usually
// computed on a [preprocess.FilterRecording] with caching enabled.
package quality
