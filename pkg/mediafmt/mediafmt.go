// Package mediafmt describes stream formats as they move through the
// negotiation pipeline. Fields are pointer-optional: nil means the source
// never reported the value and a documented default applies.
package mediafmt

// Fallback values used whenever a source or requested format omits a field.
const (
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultFrameRate      = 30
	DefaultBitrate        = 2_000_000
	DefaultIFrameInterval = 1 // seconds
)

// ColorFormatSurface is the fixed encoder input mode indicating frames
// arrive via a rendering surface rather than raw buffers. Matches the
// platform constant COLOR_FormatSurface.
const ColorFormatSurface = 0x7F000789

// Color standard constants as reported by the platform.
const (
	ColorStandardBT709     = 1
	ColorStandardBT601PAL  = 2
	ColorStandardBT601NTSC = 4
	ColorStandardBT2020    = 6
)

// Color transfer constants.
const (
	ColorTransferLinear   = 1
	ColorTransferSDRVideo = 3
	ColorTransferST2084   = 6
	ColorTransferHLG      = 7
)

// Color range constants.
const (
	ColorRangeFull    = 1
	ColorRangeLimited = 2
)

// StreamFormat describes one stream, either as probed from a source or as
// requested for an output. Nil fields are unspecified.
type StreamFormat struct {
	MimeType       string
	Width          *int
	Height         *int
	FrameRate      *int
	Bitrate        *int
	IFrameInterval *int
	ColorStandard  *int
	ColorTransfer  *int
	ColorRange     *int
}

// FrameRateOrDefault returns the stream's frame rate, or DefaultFrameRate
// when the source never reported one.
func (f StreamFormat) FrameRateOrDefault() int {
	if f.FrameRate != nil {
		return *f.FrameRate
	}
	return DefaultFrameRate
}

// IFrameIntervalOrDefault returns the keyframe interval in seconds, or
// DefaultIFrameInterval when unset.
func (f StreamFormat) IFrameIntervalOrDefault() int {
	if f.IFrameInterval != nil {
		return *f.IFrameInterval
	}
	return DefaultIFrameInterval
}

// WidthOrDefault returns the width, or DefaultWidth when unset.
func (f StreamFormat) WidthOrDefault() int {
	if f.Width != nil {
		return *f.Width
	}
	return DefaultWidth
}

// HeightOrDefault returns the height, or DefaultHeight when unset.
func (f StreamFormat) HeightOrDefault() int {
	if f.Height != nil {
		return *f.Height
	}
	return DefaultHeight
}

// BitrateOrDefault returns the bitrate in bits per second, or DefaultBitrate
// when unset.
func (f StreamFormat) BitrateOrDefault() int {
	if f.Bitrate != nil {
		return *f.Bitrate
	}
	return DefaultBitrate
}

// Int is a convenience for building optional fields in literals and tests.
func Int(v int) *int { return &v }
