package querytpl

import "strings"

type Specifier int

const (
	SpecDefault Specifier = iota
	SpecInt
	SpecFloat
	SpecArray
	SpecIdentifier
)

const marker = '?'

func (s Specifier) String() string {
	switch s {
	case SpecInt:
		return "?d"
	case SpecFloat:
		return "?f"
	case SpecArray:
		return "?a"
	case SpecIdentifier:
		return "?#"
	default:
		return "?"
	}
}

// specifierOf reads the specifier from the text that follows a marker.
func specifierOf(part string) Specifier {
	if part == "" {
		return SpecDefault
	}
	switch part[0] {
	case 'd':
		return SpecInt
	case 'f':
		return SpecFloat
	case 'a':
		return SpecArray
	case '#':
		return SpecIdentifier
	default:
		return SpecDefault
	}
}

type segment struct {
	spec Specifier
	// literal is the template text after the specifier up to the next marker.
	literal string
}

// template is a parsed query template. It is immutable once built and shared
// between goroutines through the template cache.
type template struct {
	head     string
	segments []segment
}

func (t *template) placeholders() int {
	return len(t.segments)
}

func parseTemplate(query string) *template {
	parts := strings.Split(query, string(marker))
	t := &template{
		head:     parts[0],
		segments: make([]segment, 0, len(parts)-1),
	}
	for _, part := range parts[1:] {
		spec := specifierOf(part)
		if spec != SpecDefault {
			part = part[1:]
		}
		t.segments = append(t.segments, segment{spec: spec, literal: part})
	}
	return t
}
