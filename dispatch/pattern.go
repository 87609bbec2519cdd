package dispatch

import (
	"fmt"
	"strings"
)

// segment is one compiled rule of a topic pattern.
type segment struct {
	literal string
	any     bool // "+" or a placeholder: matches exactly one segment
	multi   bool // "#": matches one or more remaining segments
}

// placeholder records where a {name} token sits in the pattern.
type placeholder struct {
	name  string
	index int
}

// TopicPattern is the compiled form of one subscription pattern. It carries
// the broker-subscribable filter and a matcher over concrete topics.
// A TopicPattern is immutable after compilation.
type TopicPattern struct {
	pattern      string
	filter       string
	exact        bool
	segments     []segment
	placeholders []placeholder
}

// CompileTopicPattern compiles a topic pattern into a TopicPattern. Segments
// are separated by "/" and each is either a literal, the single-level
// wildcard "+", the multi-level wildcard "#" (last segment only), or a named
// placeholder "{name}". Malformed patterns are rejected here so that broken
// registrations fail at startup, not at dispatch time.
func CompileTopicPattern(pattern string) (*TopicPattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty topic pattern")
	}

	parts := strings.Split(pattern, "/")
	last := len(parts) - 1

	tp := &TopicPattern{
		pattern:  pattern,
		segments: make([]segment, 0, len(parts)),
	}

	filterParts := make([]string, len(parts))
	plain := true

	for i, token := range parts {
		filterParts[i] = token
		switch {
		case token == "#":
			if i != last {
				return nil, fmt.Errorf("invalid topic pattern %q: %q is only allowed as the last segment", pattern, "#")
			}
			tp.segments = append(tp.segments, segment{multi: true})
			plain = false
		case token == "+":
			tp.segments = append(tp.segments, segment{any: true})
			plain = false
		case strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") && len(token) > 2:
			name := token[1 : len(token)-1]
			tp.placeholders = append(tp.placeholders, placeholder{name: name, index: i})
			tp.segments = append(tp.segments, segment{any: true})
			filterParts[i] = "+"
			plain = false
		default:
			tp.segments = append(tp.segments, segment{literal: token})
		}
	}

	tp.filter = strings.Join(filterParts, "/")
	tp.exact = plain
	return tp, nil
}

// Pattern returns the original pattern string.
func (p *TopicPattern) Pattern() string { return p.pattern }

// Filter returns the broker subscription filter: placeholders replaced by
// "+", everything else passed through. For a plain pattern the filter equals
// the pattern itself.
func (p *TopicPattern) Filter() string { return p.filter }

// Exact reports whether the pattern contains no wildcard and no placeholder,
// in which case matching is plain string equality.
func (p *TopicPattern) Exact() bool { return p.exact }

// Match tests a concrete topic against the pattern. On a match it returns
// the values extracted at placeholder positions (empty if the pattern has
// none). The plain-pattern case never touches the segment machinery.
func (p *TopicPattern) Match(topic string) (map[string]string, bool) {
	if p.exact {
		if topic != p.pattern {
			return nil, false
		}
		return map[string]string{}, true
	}

	parts := strings.Split(topic, "/")
	if p.segments[len(p.segments)-1].multi {
		// "#" consumes at least one segment.
		if len(parts) < len(p.segments) {
			return nil, false
		}
	} else if len(parts) != len(p.segments) {
		return nil, false
	}

	for i, seg := range p.segments {
		if seg.multi {
			break
		}
		if seg.any {
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}

	data := make(map[string]string, len(p.placeholders))
	for _, ph := range p.placeholders {
		data[ph.name] = parts[ph.index]
	}
	return data, true
}
