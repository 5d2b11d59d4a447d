// Package preprocess filters multi-channel recordings lazily, in fixed-size
// chunks, with optional bounded caching of filtered chunks.
//
// A [FilterRecording] wraps a [recording.Source] and a [Filter]. Reads are
// split into chunks of ChunkSize frames; each chunk is filtered over its
// full extent for all channels and the requested frames and channels are
// copied into the output. With caching enabled, filtered chunks are kept in
// a [chunkcache.Cache] and served again on later reads.
//
// The concrete filters in this package ([NewBandpass], [NewButterworth],
// [NewNotch], [NewIdentity]) return a ready-to-read FilterRecording.
package preprocess
