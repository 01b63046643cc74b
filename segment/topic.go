package segment

import (
	"fmt"
	"strings"

	"github.com/sievedata/sift/core"
)

// section is a header-delimited region of the document.
type section struct {
	title string
	lines []string
}

// segmentByTopic splits the text on detected header boundaries. Sections
// within the hard ceiling become one topic-segment chunk each; oversized
// sections are re-chunked with the sliding-window strategy and their
// sub-chunks get fractional positions under a synthetic parent identifier,
// preserving reading order without renumbering siblings.
func (e *Engine) segmentByTopic(text string) []*core.Chunk {
	sections := splitSections(text)

	var chunks []*core.Chunk
	for i, sec := range sections {
		content := strings.TrimSpace(strings.Join(sec.lines, "\n"))
		if content == "" {
			continue
		}
		basePos := float64(i)
		topics := topicTokens(sec.title)

		if EstimateTokens(content) <= e.config.MaxTokens {
			chunks = append(chunks, &core.Chunk{
				Position: basePos,
				Type:     core.ChunkTypeTopicSegment,
				Content:  content,
				Topics:   topics,
			})
			continue
		}

		parentId := core.IDFromContent(fmt.Sprintf("section:%d:%s", i, sec.title))
		subs := e.windowContents(content)
		step := 0.1
		if len(subs) >= 10 {
			// Keep fractional positions inside (basePos, basePos+1).
			step = 0.9 / float64(len(subs))
		}
		for j, sub := range subs {
			chunks = append(chunks, &core.Chunk{
				Position:      basePos + step*float64(j+1),
				Type:          core.ChunkTypeSlidingWindow,
				Content:       sub,
				Topics:        topics,
				ParentChunkId: parentId,
			})
		}
	}
	return chunks
}

// splitSections cuts the text at header lines. Text before the first header
// forms an untitled preamble section.
func splitSections(text string) []section {
	var sections []section
	current := section{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if header, ok := headerText(trimmed); ok {
			if len(current.lines) > 0 || current.title != "" {
				sections = append(sections, current)
			}
			current = section{title: header}
			continue
		}
		current.lines = append(current.lines, line)
	}
	if len(current.lines) > 0 || current.title != "" {
		sections = append(sections, current)
	}
	return sections
}

// topicTokens normalizes a header title into a topic set.
func topicTokens(title string) []string {
	if title == "" {
		return nil
	}
	var topics []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,;:!?()[]\"'")
		if len(word) < 3 || stopwords[word] || seen[word] {
			continue
		}
		seen[word] = true
		topics = append(topics, word)
	}
	return topics
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"about": true, "into": true, "over": true, "our": true, "their": true,
	"this": true, "that": true, "are": true, "was": true, "were": true,
}
