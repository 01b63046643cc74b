package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// Structure describes the detected layout of a raw text.
type Structure struct {
	HasSpeakers bool
	HasHeaders  bool
	// Headers holds detected header lines in order of appearance.
	// Duplicates are allowed; consumers deduplicate by first occurrence.
	Headers []string
}

var (
	// Speaker form: optional bracketed timestamp, capitalized name-like
	// token sequence, then a colon. "[00:12] Alice Smith: hello"
	speakerLineRe = regexp.MustCompile(`^(?:\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*)?([A-Z][A-Za-z.'’-]*(?:\s+[A-Z][A-Za-z.'’-]*){0,3}):\s*(.*)$`)

	markdownHeaderRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)
	numberedHeaderRe = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]\s+(.+?)\s*$`)
	allCapsHeaderRe  = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 &/_:-]{2,58}$`)
)

// DetectStructure classifies raw text: whether it contains speaker turns,
// whether it contains headers, and the header lines themselves.
// Pure function, no side effects.
func DetectStructure(text string) Structure {
	var s Structure
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if speakerLineRe.MatchString(trimmed) {
			s.HasSpeakers = true
		}

		if header, ok := headerText(trimmed); ok {
			s.HasHeaders = true
			s.Headers = append(s.Headers, header)
		}
	}
	return s
}

// headerText reports whether a trimmed line looks like a header and returns
// its text. Three independent patterns contribute: markdown-style hashes,
// short ALL-CAPS lines, and numbered section lines.
func headerText(line string) (string, bool) {
	if m := markdownHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if isAllCapsHeader(line) {
		return line, true
	}
	if m := numberedHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

func isAllCapsHeader(line string) bool {
	if !allCapsHeaderRe.MatchString(line) {
		return false
	}
	// Require at least one letter so number-only lines don't count.
	return strings.IndexFunc(line, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
}

// parseSpeakerLine splits a speaker-form line into its parts.
// The returned start time is in seconds, or -1 when the line carries no
// bracketed timestamp.
func parseSpeakerLine(line string) (speaker string, startTime float64, content string, ok bool) {
	m := speakerLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", -1, "", false
	}
	startTime = parseClock(m[1])
	return m[2], startTime, m[3], true
}

// parseClock converts "mm:ss" or "hh:mm:ss" to seconds, -1 if absent or malformed.
func parseClock(clock string) float64 {
	if clock == "" {
		return -1
	}
	parts := strings.Split(clock, ":")
	var seconds float64
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return -1
		}
		seconds = seconds*60 + float64(n)
	}
	return seconds
}
