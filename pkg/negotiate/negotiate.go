// Package negotiate adapts requested encode parameters to the capability
// constraints a hardware codec advertises: inclusive ranges plus alignment
// strides for width, height, frame rate, and bitrate. The negotiated output
// approximates the request while preserving the source aspect ratio.
package negotiate

import (
	"errors"
	"fmt"
	"log/slog"

	"thirdcoast.systems/codecfit/pkg/mediafmt"
)

// ErrZeroDimension is returned when the source format has a zero or negative
// width or height. Aspect-ratio math divides by these, so the caller must
// validate dimensions upstream.
var ErrZeroDimension = errors.New("negotiate: source dimensions must be positive")

// Range is an inclusive [Lower, Upper] bound plus the alignment stride the
// codec imposes on the parameter.
type Range struct {
	Lower     int
	Upper     int
	Alignment int
}

// Clamp constrains v to [Lower, Upper].
func (r Range) Clamp(v int) int {
	if v < r.Lower {
		return r.Lower
	}
	if v > r.Upper {
		return r.Upper
	}
	return v
}

// Align truncates v down to the nearest multiple of the alignment stride.
// An alignment of zero or one leaves v untouched.
func (r Range) Align(v int) int {
	if r.Alignment > 1 {
		return v - v%r.Alignment
	}
	return v
}

// Contains reports whether v lies within [Lower, Upper].
func (r Range) Contains(v int) bool {
	return v >= r.Lower && v <= r.Upper
}

// FrameRateRange is an inclusive frame-rate range. Codecs advertise rational
// bounds, so these are floats; clamping truncates the bound to an integer.
type FrameRateRange struct {
	Lower float64
	Upper float64
}

// Clamp constrains fps to the range, truncating rational bounds.
func (r FrameRateRange) Clamp(fps int) int {
	if float64(fps) < r.Lower {
		return int(r.Lower)
	}
	if float64(fps) > r.Upper {
		return int(r.Upper)
	}
	return fps
}

// Caps bundles the capability ranges a codec advertises for one negotiation.
type Caps struct {
	Width     Range
	Height    Range
	FrameRate FrameRateRange
	Bitrate   Range
}

// Result holds the negotiated output parameters. Width and height are
// multiples of their alignment strides; frame rate and bitrate lie within
// their ranges. Color fields are carried over from the source only when the
// source reported them.
type Result struct {
	Width          int
	Height         int
	FrameRate      int
	Bitrate        int
	IFrameInterval int
	ColorFormat    int
	ColorStandard  *int
	ColorTransfer  *int
	ColorRange     *int
}

// Negotiate computes output parameters for re-encoding a source stream.
//
// Missing fields in source or requested fall back to the mediafmt defaults,
// so the algorithm never operates on absent values. The bitrate is resolved
// by priority: bitrateOverride, then an explicit requested bitrate, then the
// source bitrate scaled by the requested-to-source pixel area ratio.
//
// Dimensions are negotiated width-first: the requested width is clamped and
// aligned, and the height derived from the source aspect ratio. If that
// height falls outside the codec's height range, a single height-first
// fallback runs instead. The fallback is not applied recursively: a
// degenerate capability set where both passes land out of range returns the
// height-first result as-is. This is a known, accepted limitation.
func Negotiate(source, requested mediafmt.StreamFormat, caps Caps, bitrateOverride *int) (Result, error) {
	srcWidth := source.WidthOrDefault()
	srcHeight := source.HeightOrDefault()
	if srcWidth <= 0 || srcHeight <= 0 {
		return Result{}, fmt.Errorf("%w: got %dx%d", ErrZeroDimension, srcWidth, srcHeight)
	}

	reqWidth := requested.WidthOrDefault()
	reqHeight := requested.HeightOrDefault()

	// Scale the source bitrate by the pixel-area ratio of the request.
	scale := float64(reqWidth*reqHeight) / float64(srcWidth*srcHeight)
	bitrate := int(float64(source.BitrateOrDefault()) * scale)
	if requested.Bitrate != nil {
		bitrate = *requested.Bitrate
	}
	if bitrateOverride != nil {
		bitrate = *bitrateOverride
	}

	aspect := float64(srcWidth) / float64(srcHeight)

	clampedWidth := caps.Width.Clamp(reqWidth)
	clampedHeight := caps.Height.Clamp(reqHeight)

	// Width-first pass: align the width, derive the height from the aspect
	// ratio, align it too.
	width := caps.Width.Align(clampedWidth)
	height := caps.Height.Align(int(float64(width) / aspect))

	if !caps.Height.Contains(height) {
		// Height-first fallback. Runs exactly once; if this still lands out
		// of range the result stands.
		height = caps.Height.Align(clampedHeight)
		width = caps.Width.Align(int(float64(height) * aspect))
	}

	frameRate := requested.FrameRate
	if frameRate == nil {
		frameRate = source.FrameRate
	}
	fps := mediafmt.DefaultFrameRate
	if frameRate != nil {
		fps = *frameRate
	}

	res := Result{
		Width:          width,
		Height:         height,
		FrameRate:      caps.FrameRate.Clamp(fps),
		Bitrate:        caps.Bitrate.Clamp(bitrate),
		IFrameInterval: source.IFrameIntervalOrDefault(),
		ColorFormat:    mediafmt.ColorFormatSurface,
		ColorStandard:  source.ColorStandard,
		ColorTransfer:  source.ColorTransfer,
		ColorRange:     source.ColorRange,
	}

	slog.Debug("negotiated output format",
		"requested", fmt.Sprintf("%dx%d", reqWidth, reqHeight),
		"clamped", fmt.Sprintf("%dx%d", clampedWidth, clampedHeight),
		"aligned", fmt.Sprintf("%dx%d", res.Width, res.Height),
		"fps", res.FrameRate,
		"bitrate", res.Bitrate)

	return res, nil
}
