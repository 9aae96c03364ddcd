// Package video inspects screen recordings and samples frames from them.
//
// Inspection shells out to ffprobe for container metadata (duration, frame
// rate, dimensions). Sampling shells out to ffmpeg in one of two modes:
// fixed-interval extraction (one frame every N seconds) or scene-change
// extraction (key frames where the frame difference exceeds a sensitivity
// threshold, plus the first frame). Extracted frames land in a working
// directory as JPEGs; each carries the timestamp it was taken from.
//
// All decoding happens here, strictly upstream of the matching engine.
package video
