// Copyright 2025 Sieve Data
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extract

import (
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sievedata/sift/core"
)

const contextRadius = 100

// Extractor finds typed entities in raw text using pattern rules.
type Extractor struct {
	rules  Rules
	logger *slog.Logger
}

type Option func(*Extractor) error

// WithRules replaces the default pattern tables.
func WithRules(rules Rules) Option {
	return func(e *Extractor) error {
		e.rules = rules
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		e.logger = logger.With("component", "extractor")
		return nil
	}
}

func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		rules:  DefaultRules(),
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract runs every rule table over the text and returns merged entities
// sorted by descending confidence. A failure in one type's patterns never
// affects the others; there is nothing fallible here beyond the regexp
// engine, but types are still processed in isolation.
func (e *Extractor) Extract(text string) []*core.ExtractedEntity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []*core.ExtractedEntity
	for _, entityType := range core.EntityTypes {
		rules := e.rules[entityType]
		if len(rules) == 0 {
			continue
		}
		found := e.extractType(text, entityType, rules)
		out = append(out, found...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (e *Extractor) extractType(text string, entityType core.EntityType, rules []Rule) []*core.ExtractedEntity {
	var found []*core.ExtractedEntity
	for _, rule := range rules {
		for _, match := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			if len(match) < 4 || match[2] < 0 {
				continue
			}
			value := strings.TrimSpace(text[match[2]:match[3]])
			value = strings.Trim(value, `."',;`)
			if len(value) < 2 {
				continue
			}
			found = append(found, &core.ExtractedEntity{
				Type:           entityType,
				Value:          value,
				Confidence:     rule.Confidence,
				SourcePosition: match[2],
				Context:        contextWindow(text, match[2], match[3]),
			})
		}
	}
	return mergeSimilar(found)
}

// mergeSimilar collapses entities of the same type whose values are near
// duplicates, keeping the highest-confidence representative.
func mergeSimilar(entities []*core.ExtractedEntity) []*core.ExtractedEntity {
	var merged []*core.ExtractedEntity
	for _, candidate := range entities {
		absorbed := false
		for _, kept := range merged {
			if Similarity(kept.Value, candidate.Value) > similarityThreshold {
				if candidate.Confidence > kept.Confidence {
					kept.Value = candidate.Value
					kept.Confidence = candidate.Confidence
					kept.SourcePosition = candidate.SourcePosition
					kept.Context = candidate.Context
				}
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, candidate)
		}
	}
	return merged
}

func contextWindow(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	// Byte offsets can land inside a multibyte rune; widen to boundaries
	// so the context is always valid UTF-8.
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}
