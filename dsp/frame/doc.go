// Package frame slices recordings into analysis frames and prepares frames
// for periodicity analysis.
//
// A [Segmenter] converts millisecond settings to sample counts and slides a
// window across the recording, including zero-padding regions at both edges
// where the window is clamped to the recording. [Preprocess] removes the mean
// and scales the frame to a peak magnitude of 1, reporting silent frames as
// [ErrDegenerate] instead of dividing by zero.
package frame
