package device

import (
	"fmt"
	"strings"
)

// Capability is a single decodable mime type and codec pair
type Capability struct {
	MimeType string `json:"mimeType"`
	Codec    string `json:"codec"`
}

// String returns the capability in mime=codec form
func (c Capability) String() string {
	return c.MimeType + "=" + c.Codec
}

// ParseCapability parses a "mime=codec" pair such as "video/webm=vp9"
func ParseCapability(s string) (Capability, error) {
	mime, codec, ok := strings.Cut(strings.TrimSpace(s), "=")
	mime = strings.TrimSpace(mime)
	codec = strings.TrimSpace(codec)
	if !ok || mime == "" || codec == "" {
		return Capability{}, fmt.Errorf("invalid capability %q, expected mime=codec", s)
	}
	return Capability{MimeType: mime, Codec: codec}, nil
}

// ParseCapabilities parses a list of "mime=codec" pairs
func ParseCapabilities(values []string) ([]Capability, error) {
	caps := make([]Capability, 0, len(values))
	for _, v := range values {
		c, err := ParseCapability(v)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// StaticOracle answers capability queries from a fixed capability list.
// Mime types match case-insensitively; codec strings must match exactly.
type StaticOracle struct {
	supported map[Capability]struct{}
}

// NewStaticOracle creates an oracle supporting exactly the given capabilities
func NewStaticOracle(caps ...Capability) *StaticOracle {
	o := &StaticOracle{supported: make(map[Capability]struct{}, len(caps))}
	for _, c := range caps {
		o.supported[normalize(c.MimeType, c.Codec)] = struct{}{}
	}
	return o
}

// Supports reports whether the pair is in the configured list
func (o *StaticOracle) Supports(mimeType, codec string) bool {
	_, ok := o.supported[normalize(mimeType, codec)]
	return ok
}

func normalize(mimeType, codec string) Capability {
	return Capability{
		MimeType: strings.ToLower(strings.TrimSpace(mimeType)),
		Codec:    strings.TrimSpace(codec),
	}
}
