package hb

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureGlobalStart and FeatureGlobalEnd select the whole buffer as the
// range of a Feature.
const (
	FeatureGlobalStart uint32 = 0
	FeatureGlobalEnd   uint32 = 0xffffffff
)

// Feature is a request to enable, disable or parameterize one OpenType
// feature over a cluster range of the buffer. A plain value, no ownership.
type Feature struct {
	Tag   Tag
	Value uint32
	Start uint32 // first cluster value the feature applies to
	End   uint32 // one past the last cluster value
}

// NewFeature returns a feature request covering the whole buffer.
func NewFeature(tag Tag, value uint32) Feature {
	return Feature{Tag: tag, Value: value, Start: FeatureGlobalStart, End: FeatureGlobalEnd}
}

// ParseFeature parses the hb-shape feature syntax: "kern", "+liga", "-calt",
// "aalt=2", "liga[3:5]", "liga[3:5]=0" and combinations thereof.
func ParseFeature(s string) (Feature, error) {
	f := Feature{Value: 1, Start: FeatureGlobalStart, End: FeatureGlobalEnd}
	s = strings.TrimSpace(s)
	if s == "" {
		return f, fmt.Errorf("feature: empty string")
	}
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		f.Value = 0
		s = s[1:]
	}
	if i := strings.IndexByte(s, '='); i >= 0 {
		v, err := strconv.ParseUint(s[i+1:], 10, 32)
		if err != nil {
			return f, fmt.Errorf("feature: bad value in %q", s)
		}
		f.Value = uint32(v)
		s = s[:i]
	}
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return f, fmt.Errorf("feature: unterminated range in %q", s)
		}
		rng := s[i+1 : len(s)-1]
		s = s[:i]
		start, end, ok := strings.Cut(rng, ":")
		if !ok {
			return f, fmt.Errorf("feature: bad range in %q", rng)
		}
		if start != "" {
			v, err := strconv.ParseUint(start, 10, 32)
			if err != nil {
				return f, fmt.Errorf("feature: bad range start %q", start)
			}
			f.Start = uint32(v)
		}
		if end != "" {
			v, err := strconv.ParseUint(end, 10, 32)
			if err != nil {
				return f, fmt.Errorf("feature: bad range end %q", end)
			}
			f.End = uint32(v)
		}
	}
	tag, err := TagFromString(s)
	if err != nil {
		return f, err
	}
	f.Tag = tag
	return f, nil
}

func (f Feature) String() string {
	var sb strings.Builder
	if f.Value == 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(f.Tag.String())
	if f.Start != FeatureGlobalStart || f.End != FeatureGlobalEnd {
		sb.WriteByte('[')
		if f.Start != FeatureGlobalStart {
			fmt.Fprintf(&sb, "%d", f.Start)
		}
		sb.WriteByte(':')
		if f.End != FeatureGlobalEnd {
			fmt.Fprintf(&sb, "%d", f.End)
		}
		sb.WriteByte(']')
	}
	if f.Value > 1 {
		fmt.Fprintf(&sb, "=%d", f.Value)
	}
	return sb.String()
}

// Variation sets one variable-font design axis to a value in design space.
type Variation struct {
	Tag   Tag
	Value float32
}

// ParseVariation parses the hb-shape variation syntax, e.g. "wght=600".
func ParseVariation(s string) (Variation, error) {
	name, val, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return Variation{}, fmt.Errorf("variation: missing '=' in %q", s)
	}
	tag, err := TagFromString(name)
	if err != nil {
		return Variation{}, err
	}
	v, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return Variation{}, fmt.Errorf("variation: bad value in %q", s)
	}
	return Variation{Tag: tag, Value: float32(v)}, nil
}
