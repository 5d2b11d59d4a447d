// Package recording defines the multi-channel trace source abstraction used
// by the preprocessing and quality packages.
//
// A [Source] exposes an ordered list of channel ids, a frame count, a
// sampling frequency and random-access reads returning a [Block]. Blocks are
// dense and channel-major: sample f of row r lives at Data[r*Frames+f].
//
// [Memory] wraps in-memory rows, [RawFile] reads interleaved binary files,
// and [Sub] exposes a frame window of another source.
package recording
