package segment

import (
	"strings"

	"github.com/sievedata/sift/core"
)

// speakerTurn accumulates the lines of one speaker's turn.
type speakerTurn struct {
	speaker   string
	startTime float64
	lines     []string
	tokens    int
}

// segmentBySpeaker walks the text line by line and flushes a chunk on every
// speaker change. Turns that grow past the target are force-flushed with the
// last ~10% of lines carried forward as overlap.
func (e *Engine) segmentBySpeaker(text string) []*core.Chunk {
	var chunks []*core.Chunk
	turn := speakerTurn{startTime: -1}
	position := 0.0

	flush := func(endTime float64) {
		content := strings.TrimSpace(strings.Join(turn.lines, "\n"))
		if content == "" {
			return
		}
		chunks = append(chunks, &core.Chunk{
			Position:  position,
			Type:      core.ChunkTypeSpeakerTurn,
			Content:   content,
			Speaker:   turn.speaker,
			StartTime: turn.startTime,
			EndTime:   endTime,
		})
		position++
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		speaker, ts, _, ok := parseSpeakerLine(line)
		switch {
		case ok && speaker != turn.speaker:
			// Speaker change: close the running turn. A timestamp on the
			// incoming line bounds the previous turn's end.
			flush(ts)
			turn = speakerTurn{speaker: speaker, startTime: ts}
		case ok && ts >= 0 && turn.startTime < 0:
			turn.startTime = ts
		}

		turn.lines = append(turn.lines, line)
		turn.tokens += EstimateTokens(line)

		if turn.tokens >= e.config.TargetTokens {
			carry := overlapLines(turn.lines, e.config.OverlapTokens)
			flush(-1)
			turn = speakerTurn{speaker: turn.speaker, startTime: -1, lines: carry}
			for _, l := range carry {
				turn.tokens += EstimateTokens(l)
			}
		}
	}
	flush(-1)

	return chunks
}

// overlapLines returns the trailing ~10% of lines, capped at the configured
// overlap token budget. Never returns all lines, so a force-flush always
// makes progress.
func overlapLines(lines []string, overlapTokens int) []string {
	if len(lines) < 2 {
		return nil
	}
	n := len(lines) / 10
	if n < 1 {
		n = 1
	}
	carry := lines[len(lines)-n:]

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
