package segment

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sievedata/sift/core"
)

// maxChunksPerDocument is a safety valve against pathological inputs.
// Segmentation stops once this many chunks exist; the remainder of the
// text is folded into the final chunk.
const maxChunksPerDocument = 5000

// Engine splits raw text into ordered chunks.
type Engine struct {
	config *Config
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig sets the chunking configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		e.config = config
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a segmentation engine with the documented defaults.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "segment")
	return e, nil
}

// Segment splits text into ordered chunks using the strategy selected by the
// detected structure and the document kind. It never fails for well-formed
// text; empty or whitespace-only input yields zero chunks.
func (e *Engine) Segment(docId core.ID, text string, kind core.DocumentKind) []*core.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	structure := DetectStructure(text)

	var chunks []*core.Chunk
	switch {
	case structure.HasSpeakers && (kind == core.KindMeeting || kind == core.KindChat):
		chunks = e.segmentBySpeaker(text)
	case structure.HasHeaders:
		chunks = e.segmentByTopic(text)
	default:
		chunks = e.segmentSlidingWindow(text)
	}

	if len(chunks) > maxChunksPerDocument {
		e.logger.Warn("chunk safety valve hit, truncating",
			"chunks", len(chunks), "limit", maxChunksPerDocument)
		chunks = chunks[:maxChunksPerDocument]
	}

	e.finalize(docId, chunks)
	return chunks
}

// finalize assigns IDs, wires adjacency links and context snippets, and
// scores importance. Positions are set by the strategies and must already
// be strictly increasing.
func (e *Engine) finalize(docId core.ID, chunks []*core.Chunk) {
	for _, chunk := range chunks {
		chunk.DocumentId = docId
		chunk.Id = core.IDFromContent(fmt.Sprintf("%d:%g:%s", docId, chunk.Position, chunk.Content))
		chunk.TokenCount = EstimateTokens(chunk.Content)
	}
	for i, chunk := range chunks {
		if i > 0 {
			chunk.PreviousChunkId = chunks[i-1].Id
			chunk.ContextBefore = lastLines(chunks[i-1].Content, 3)
		}
		if i < len(chunks)-1 {
			chunk.NextChunkId = chunks[i+1].Id
			chunk.ContextAfter = firstLines(chunks[i+1].Content, 3)
		}
		chunk.Importance = importanceScore(chunk, i, len(chunks))
	}
}

// importanceScore is a cheap heuristic in [0,1]: opening and closing chunks
// matter more, as do chunks containing commitment language.
func importanceScore(chunk *core.Chunk, index, total int) float64 {
	score := 0.5
	if index == 0 {
		score += 0.2
	}
	if index == total-1 && total > 1 {
		score += 0.1
	}
	lower := strings.ToLower(chunk.Content)
	for _, kw := range []string{"decided", "agreed", "action item", "deadline", "blocker"} {
		if strings.Contains(lower, kw) {
			score += 0.1
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

func firstLines(text string, n int) string {
	lines := nonEmptyLines(text)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func lastLines(text string, n int) string {
	lines := nonEmptyLines(text)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
