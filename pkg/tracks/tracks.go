// Package tracks locates streams inside a demultiplexed container by MIME
// type.
package tracks

import "strings"

// NotFound is returned by Find when no track of the requested kind exists.
// Absence of a track is an expected outcome, not an error; callers decide
// whether it is fatal.
const NotFound = -1

// IsVideo reports whether mime describes a video track.
func IsVideo(mime string) bool {
	return strings.HasPrefix(mime, "video/")
}

// IsAudio reports whether mime describes an audio track.
func IsAudio(mime string) bool {
	return strings.HasPrefix(mime, "audio/")
}

// Find returns the index of the first video track (or first audio track when
// wantVideo is false) in the given per-track MIME list, or NotFound. Ties
// always resolve to the lowest index.
func Find(mimeTypes []string, wantVideo bool) int {
	for i, mime := range mimeTypes {
		if wantVideo && IsVideo(mime) {
			return i
		}
		if !wantVideo && IsAudio(mime) {
			return i
		}
	}
	return NotFound
}
