// Package bitrate computes target video bitrates for compression: either
// sized to fit a byte budget or derived from the source bitrate by a quality
// tier with a resolution-aware floor.
package bitrate

// Quality selects how aggressively Auto reduces the source bitrate.
type Quality int

const (
	QualityHigh Quality = iota
	QualityMedium
	QualityLow
)

func (q Quality) String() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	case QualityLow:
		return "low"
	default:
		return "unknown"
	}
}

// factor is the fraction of the source bitrate each tier keeps.
func (q Quality) factor() float64 {
	switch q {
	case QualityHigh:
		return 0.66
	case QualityMedium:
		return 0.5
	case QualityLow:
		return 0.33
	default:
		return 0.5
	}
}

// Overall clamp for computed video bitrates, in bits per second.
const (
	MinVideoBps = 100_000
	MaxVideoBps = 50_000_000
)

// ForSize returns the video bitrate in bits per second that fits maxSizeMB
// after reserving audioBps, clamped to [MinVideoBps, MaxVideoBps]. A zero or
// negative duration yields MaxVideoBps: no budget can be computed, so the
// size constraint is effectively absent.
func ForSize(maxSizeMB int, durationSec float64, audioBps int) int {
	if durationSec <= 0 {
		return MaxVideoBps
	}
	maxBits := int64(maxSizeMB) * 1024 * 1024 * 8
	total := int(float64(maxBits) / durationSec)
	return clamp(total-audioBps, MinVideoBps, MaxVideoBps)
}

// Auto derives a compressed bitrate from the source bitrate and quality
// tier. A resolution-dependent floor keeps low tiers from starving large
// frames; sources already at or below the floor pass through untouched
// rather than being inflated.
func Auto(width, height, sourceBps int, q Quality) int {
	floor := floorFor(width * height)
	if sourceBps <= floor {
		return sourceBps
	}
	target := int(float64(sourceBps) * q.factor())
	if target < floor {
		return floor
	}
	return clamp(target, MinVideoBps, MaxVideoBps)
}

// floorFor maps a pixel count to the lowest bitrate worth encoding at.
func floorFor(pixels int) int {
	switch {
	case pixels <= 0:
		return MinVideoBps
	case pixels <= 640*360:
		return 400_000
	case pixels <= 854*480:
		return 700_000
	case pixels <= 1280*720:
		return 1_200_000
	case pixels <= 1920*1080:
		return 2_500_000
	default:
		return 6_000_000
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
