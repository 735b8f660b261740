package device

// Container and codec strings probed by Classify
const (
	MP4MimeType  = "video/mp4"
	WebMMimeType = "video/webm"

	HEVCCodec      = "hev1.1.6.L150.B0" // HEVC Main, level 5.0
	VP9Codec       = "vp9"
	AVCHigh42Codec = "avc1.64002A" // H.264 High, level 4.2
	AVCHigh41Codec = "avc1.640029" // H.264 High, level 4.1
)

// CapabilityOracle reports whether the platform can decode a media type
type CapabilityOracle interface {
	Supports(mimeType, codec string) bool
}

// OracleFunc adapts a plain function to CapabilityOracle
type OracleFunc func(mimeType, codec string) bool

// Supports calls f(mimeType, codec)
func (f OracleFunc) Supports(mimeType, codec string) bool {
	return f(mimeType, codec)
}

// Classify queries the oracle and returns the device class.
//
// The checks run from the most capable class down and the first match wins,
// since newer devices support a superset of older codecs. A nil oracle, or one
// that supports none of the probed codecs, yields ClassAudio. Results are not
// cached.
func Classify(oracle CapabilityOracle) Class {
	if oracle == nil {
		return ClassAudio
	}

	vp9 := oracle.Supports(WebMMimeType, VP9Codec)

	switch {
	case vp9 && oracle.Supports(MP4MimeType, HEVCCodec):
		return ClassUltra
	case vp9:
		return ClassSmartDisplay
	case oracle.Supports(MP4MimeType, AVCHigh42Codec):
		return ClassChromecastGen3
	case oracle.Supports(MP4MimeType, AVCHigh41Codec):
		return ClassChromecast
	default:
		return ClassAudio
	}
}
