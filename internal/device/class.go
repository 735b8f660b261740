package device

import (
	"fmt"
	"strings"
)

// Class is the coarse media capability class of the receiver hardware
type Class string

const (
	ClassChromecast     Class = "chromecast"      // first and second generation
	ClassAudio          Class = "audio"           // no qualifying video decoder
	ClassChromecastGen3 Class = "chromecast_gen3" // third generation
	ClassUltra          Class = "ultra"           // HEVC and VP9 capable
	ClassSmartDisplay   Class = "smart_display"   // VP9 without HEVC, e.g. Nest Hub
)

// String returns the string representation of the class
func (c Class) String() string {
	return string(c)
}

// IsValid checks if the class is one of the known device classes
func (c Class) IsValid() bool {
	switch c {
	case ClassChromecast, ClassAudio, ClassChromecastGen3, ClassUltra, ClassSmartDisplay:
		return true
	default:
		return false
	}
}

// ParseClass converts a configured class name into a Class
func ParseClass(name string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(name)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown device class %q", name)
	}
	return c, nil
}

// StreamProfile describes the streams a device class should be served
type StreamProfile struct {
	VideoEnabled bool   `json:"videoEnabled"`
	VideoCodec   string `json:"videoCodec,omitempty"`
	MaxHeight    int    `json:"maxHeight"`
	MaxFrameRate int    `json:"maxFrameRate"`
	HDR          bool   `json:"hdr"`
}

// ProfileFor returns the stream selection profile for a device class.
// Unknown classes get the audio profile.
func ProfileFor(c Class) StreamProfile {
	switch c {
	case ClassUltra:
		return StreamProfile{
			VideoEnabled: true,
			VideoCodec:   HEVCCodec,
			MaxHeight:    2160,
			MaxFrameRate: 60,
			HDR:          true,
		}
	case ClassSmartDisplay:
		return StreamProfile{
			VideoEnabled: true,
			VideoCodec:   VP9Codec,
			MaxHeight:    720,
			MaxFrameRate: 30,
		}
	case ClassChromecastGen3:
		return StreamProfile{
			VideoEnabled: true,
			VideoCodec:   AVCHigh42Codec,
			MaxHeight:    1080,
			MaxFrameRate: 60,
		}
	case ClassChromecast:
		return StreamProfile{
			VideoEnabled: true,
			VideoCodec:   AVCHigh41Codec,
			MaxHeight:    1080,
			MaxFrameRate: 30,
		}
	default:
		return StreamProfile{}
	}
}
