package segment

import "errors"

// Config bounds chunk sizes, in estimated tokens.
type Config struct {
	// TargetTokens is the size a chunk should aim for.
	TargetTokens int
	// MaxTokens is the hard ceiling; sections above it are re-chunked.
	MaxTokens int
	// MinTokens is the floor; trailing fragments below it are merged
	// into the preceding chunk.
	MinTokens int
	// OverlapTokens caps how much trailing content is carried into the
	// next chunk for context continuity.
	OverlapTokens int
}

// DefaultConfig returns the documented defaults (1000/1500/100/200).
func DefaultConfig() *Config {
	return &Config{
		TargetTokens:  1000,
		MaxTokens:     1500,
		MinTokens:     100,
		OverlapTokens: 200,
	}
}

// Validate checks the configuration for internal consistency.
// Misconfiguration is a permanent error and fails fast.
func (c *Config) Validate() error {
	if c.TargetTokens <= 0 {
		return errors.New("segment config: TargetTokens must be positive")
	}
	if c.MaxTokens < c.TargetTokens {
		return errors.New("segment config: MaxTokens must be >= TargetTokens")
	}
	if c.MinTokens < 0 || c.MinTokens > c.TargetTokens {
		return errors.New("segment config: MinTokens must be in [0, TargetTokens]")
	}
	if c.OverlapTokens < 0 || c.OverlapTokens >= c.TargetTokens {
		return errors.New("segment config: OverlapTokens must be in [0, TargetTokens)")
	}
	return nil
}
