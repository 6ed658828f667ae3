// Package codecs describes the codec implementations a platform reports and
// answers existence probes against them. The probe is a capability gate:
// absence of a codec is an expected outcome, never an error.
package codecs

import "strings"

// Codec is one platform-reported codec implementation.
type Codec struct {
	Name      string
	MimeTypes []string
	Encoder   bool
	Hardware  bool
}

// Supports reports whether the codec handles the given MIME type.
func (c Codec) Supports(mime string) bool {
	for _, m := range c.MimeTypes {
		if strings.EqualFold(m, mime) {
			return true
		}
	}
	return false
}

// Has reports whether any codec in list has nameSubstr in its platform name.
// Matching is case-insensitive; platform vendors are not consistent about
// casing in codec names.
func Has(list []Codec, nameSubstr string) bool {
	needle := strings.ToLower(nameSubstr)
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}

// HasEncoder is Has restricted to encoder implementations.
func HasEncoder(list []Codec, nameSubstr string) bool {
	needle := strings.ToLower(nameSubstr)
	for _, c := range list {
		if c.Encoder && strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}

// ForMime returns the codecs in list that support the given MIME type,
// preserving platform order.
func ForMime(list []Codec, mime string) []Codec {
	var out []Codec
	for _, c := range list {
		if c.Supports(mime) {
			out = append(out, c)
		}
	}
	return out
}

// Platform returns a typical hardware-first codec list as an Android-flavored
// device would report it. Callers negotiating against a real device should
// supply their own list; this one serves defaults and tests.
func Platform() []Codec {
	return []Codec{
		{Name: "c2.qti.avc.encoder", MimeTypes: []string{"video/avc"}, Encoder: true, Hardware: true},
		{Name: "c2.qti.avc.decoder", MimeTypes: []string{"video/avc"}, Hardware: true},
		{Name: "c2.qti.hevc.encoder", MimeTypes: []string{"video/hevc"}, Encoder: true, Hardware: true},
		{Name: "c2.qti.hevc.decoder", MimeTypes: []string{"video/hevc"}, Hardware: true},
		{Name: "c2.android.avc.encoder", MimeTypes: []string{"video/avc"}, Encoder: true},
		{Name: "c2.android.avc.decoder", MimeTypes: []string{"video/avc"}},
		{Name: "c2.android.aac.encoder", MimeTypes: []string{"audio/mp4a-latm"}, Encoder: true},
		{Name: "c2.android.aac.decoder", MimeTypes: []string{"audio/mp4a-latm"}},
	}
}
