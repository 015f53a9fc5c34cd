package config

import (
	"regexp"
	"strings"
)

// Abbreviations of the search path operators.
const (
	AttributesAbbr = "@"
	ParametersAbbr = "#"
	PropertiesAbbr = "$"
	ListAbbr       = "%"
)

// Fixed search path tokens.
const (
	Wildcard          = "*"
	RecursiveWildcard = "**"
	ParentReference   = ".."
	CurrentReference  = "."
	PathSeparator     = "/"
	NameSeparator     = "."
)

// ListNodeReplacement is the AbbrReplacement of a resolved list index operator.
const ListNodeReplacement = "LIST_NODE"

// Bracket interiors are masked before splitting so an index expression never breaks a segment.
const (
	maskedSeparator = "\x00s\x00"
	maskedDot       = "\x00d\x00"
)

var listIndexPattern = regexp.MustCompile(`^(\w*)\[(\d*)\]$`)

// ResolvedName is a search path segment that carries an operator.
type ResolvedName struct {
	// Name is the node the operator applies to.
	Name string
	// AbbrReplacement is the reserved node name the abbreviation stands for, or
	// ListNodeReplacement for list indexes.
	AbbrReplacement string
	// ChildName is the key or index after the abbreviation, if any.
	ChildName string
	// Abbr is the operator character; empty for a plain wildcard.
	Abbr string
}

// ResolveName classifies one search path segment. current is the name of the node the
// segment is evaluated against; it replaces an empty or "*" left-hand side. A nil result
// means the segment is a plain name.
func ResolveName(segment, current string, settings *Settings) *ResolvedName {
	if settings == nil {
		settings = DefaultSettings()
	}

	switch {
	case strings.Contains(segment, AttributesAbbr):
		return splitOperator(segment, current, AttributesAbbr, settings.AttributesNodeName)
	case strings.Contains(segment, ParametersAbbr):
		return splitOperator(segment, current, ParametersAbbr, settings.ParametersNodeName)
	case strings.Contains(segment, PropertiesAbbr):
		return splitOperator(segment, current, PropertiesAbbr, settings.PropertiesNodeName)
	case strings.Contains(segment, ListAbbr):
		return splitOperator(segment, current, ListAbbr, ListNodeReplacement)
	}

	if match := listIndexPattern.FindStringSubmatch(segment); match != nil {
		name := match[1]
		if name == "" {
			name = current
		}

		return &ResolvedName{
			Name:            name,
			AbbrReplacement: ListNodeReplacement,
			ChildName:       match[2],
			Abbr:            ListAbbr,
		}
	}

	if segment == Wildcard {
		return &ResolvedName{Name: current, AbbrReplacement: "", ChildName: "", Abbr: ""}
	}

	return nil
}

func splitOperator(segment, current, abbr, replacement string) *ResolvedName {
	name, child, _ := strings.Cut(segment, abbr)
	if name == "" || name == Wildcard {
		name = current
	}

	return &ResolvedName{
		Name:            name,
		AbbrReplacement: replacement,
		ChildName:       child,
		Abbr:            abbr,
	}
}

// SplitPath tokenizes a search path. Segments are separated by "/" and "."; ".." and
// "**" stay whole, and nothing inside [...] is split.
func SplitPath(path string) []string {
	var segments []string

	for _, part := range strings.Split(maskBrackets(path), PathSeparator) {
		switch part {
		case "":
			continue
		case ParentReference, CurrentReference, RecursiveWildcard:
			segments = append(segments, part)

			continue
		}

		for _, token := range strings.Split(part, NameSeparator) {
			if token != "" {
				segments = append(segments, unmask(token))
			}
		}
	}

	return segments
}

func maskBrackets(path string) string {
	if !strings.Contains(path, "[") {
		return path
	}

	var builder strings.Builder

	depth := 0

	for _, char := range path {
		switch {
		case char == '[':
			depth++
		case char == ']' && depth > 0:
			depth--
		case depth > 0 && string(char) == PathSeparator:
			builder.WriteString(maskedSeparator)

			continue
		case depth > 0 && string(char) == NameSeparator:
			builder.WriteString(maskedDot)

			continue
		}

		builder.WriteRune(char)
	}

	return builder.String()
}

func unmask(token string) string {
	token = strings.ReplaceAll(token, maskedSeparator, PathSeparator)

	return strings.ReplaceAll(token, maskedDot, NameSeparator)
}
