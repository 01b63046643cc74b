package segment

import (
	"regexp"
	"strings"

	"github.com/sievedata/sift/core"
)

var sentenceEndRe = regexp.MustCompile(`([.!?]+)\s+`)

// segmentSlidingWindow is the fallback strategy for plain prose: accumulate
// sentences up to the target size, flush, and seed the next chunk with the
// trailing ~20% of sentences as overlap.
func (e *Engine) segmentSlidingWindow(text string) []*core.Chunk {
	contents := e.windowContents(text)
	chunks := make([]*core.Chunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, &core.Chunk{
			Position: float64(i),
			Type:     core.ChunkTypeSlidingWindow,
			Content:  content,
		})
	}
	return chunks
}

// windowContents produces the chunk content strings for the sliding-window
// strategy. Shared with topic segmentation for oversized sections.
func (e *Engine) windowContents(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var out []string
	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		out = append(out, strings.TrimSpace(strings.Join(buf, " ")))

		seed := overlapSentences(buf, e.config.OverlapTokens)
		buf = buf[:0]
		bufTokens = 0
		for _, s := range seed {
			buf = append(buf, s)
			bufTokens += EstimateTokens(s) + 1
		}
	}

	for _, sentence := range sentences {
		tokens := EstimateTokens(sentence) + 1
		if bufTokens+tokens > e.config.TargetTokens && len(buf) > 0 {
			flush()
		}
		buf = append(buf, sentence)
		bufTokens += tokens
	}

	// Final flush; a trailing fragment below the floor is merged into the
	// previous chunk instead of standing alone.
	if len(buf) > 0 {
		tail := strings.TrimSpace(strings.Join(buf, " "))
		if len(out) > 0 && EstimateTokens(tail) < e.config.MinTokens {
			last := out[len(out)-1]
			if !strings.HasSuffix(last, tail) {
				out[len(out)-1] = last + " " + tail
			}
		} else {
			out = append(out, tail)
		}
	}
	return out
}

// overlapSentences returns the trailing ~20% of sentences, capped at the
// overlap token budget. Never returns the whole buffer.
func overlapSentences(sentences []string, overlapTokens int) []string {
	if len(sentences) < 2 {
		return nil
	}
	n := len(sentences) / 5
	if n < 1 {
		n = 1
	}
	carry := sentences[len(sentences)-n:]

	tokens := 0
	for i := len(carry) - 1; i >= 0; i-- {
		tokens += EstimateTokens(carry[i])
		if tokens > overlapTokens {
			carry = carry[i+1:]
			break
		}
	}
	out := make([]string, len(carry))
	copy(out, carry)
	return out
}

// splitSentences breaks text into sentences on terminal punctuation followed
// by whitespace, keeping the punctuation with the sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	var sentences []string
	for _, part := range strings.Split(marked, "\x00") {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
