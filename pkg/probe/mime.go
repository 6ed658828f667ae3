package probe

import "thirdcoast.systems/codecfit/pkg/mediafmt"

// MimeFor maps an ffprobe codec type/name pair to the MIME type the codec
// layer expects. Unknown codecs fall back to a generic type of the right
// kind so track lookup still classifies them.
func MimeFor(codecType, codecName string) string {
	switch codecType {
	case "video":
		switch codecName {
		case "h264":
			return "video/avc"
		case "hevc", "h265":
			return "video/hevc"
		case "vp8":
			return "video/x-vnd.on2.vp8"
		case "vp9":
			return "video/x-vnd.on2.vp9"
		case "av1":
			return "video/av01"
		case "mpeg4":
			return "video/mp4v-es"
		default:
			return "video/" + codecName
		}
	case "audio":
		switch codecName {
		case "aac":
			return "audio/mp4a-latm"
		case "opus":
			return "audio/opus"
		case "mp3":
			return "audio/mpeg"
		case "vorbis":
			return "audio/vorbis"
		case "ac3":
			return "audio/ac3"
		case "flac":
			return "audio/flac"
		default:
			return "audio/" + codecName
		}
	case "subtitle":
		return "text/" + codecName
	default:
		return "application/" + codecName
	}
}

// colorStandard maps ffprobe color_space strings to platform constants.
// Unknown or empty values stay nil: negotiation must not invent color
// metadata the source never carried.
func colorStandard(s string) *int {
	switch s {
	case "bt709":
		return mediafmt.Int(mediafmt.ColorStandardBT709)
	case "bt470bg":
		return mediafmt.Int(mediafmt.ColorStandardBT601PAL)
	case "smpte170m":
		return mediafmt.Int(mediafmt.ColorStandardBT601NTSC)
	case "bt2020nc", "bt2020c":
		return mediafmt.Int(mediafmt.ColorStandardBT2020)
	default:
		return nil
	}
}

func colorTransfer(s string) *int {
	switch s {
	case "linear":
		return mediafmt.Int(mediafmt.ColorTransferLinear)
	case "bt709", "smpte170m":
		return mediafmt.Int(mediafmt.ColorTransferSDRVideo)
	case "smpte2084":
		return mediafmt.Int(mediafmt.ColorTransferST2084)
	case "arib-std-b67":
		return mediafmt.Int(mediafmt.ColorTransferHLG)
	default:
		return nil
	}
}

func colorRange(s string) *int {
	switch s {
	case "pc", "full":
		return mediafmt.Int(mediafmt.ColorRangeFull)
	case "tv", "limited":
		return mediafmt.Int(mediafmt.ColorRangeLimited)
	default:
		return nil
	}
}
